package stlc

import (
	"fmt"
	"time"

	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
)

var sampleContent = map[string]string{
	catalog.CodeReview: "## Code Review Results\n\n### main.js\n" +
		"- Function `calculateTotal()` lacks input validation\n" +
		"- Consider adding error handling for edge cases\n\n### utils.js\n" +
		"- Good use of modular design\n" +
		"- Line 42: Potential memory leak in event listener",
	catalog.TestPlanning: "## Test Planning Document\n\n### Test Objectives\n" +
		"1. Validate user authentication flows\n" +
		"2. Verify data integrity across transactions\n\n### Test Scenarios\n" +
		"- Login with valid credentials\n" +
		"- Login with invalid credentials\n" +
		"- Password reset flow",
	catalog.RequirementAnalysis: "## Requirements Analysis\n\n### Functional Requirements\n" +
		"- User registration system\n" +
		"- Product catalog browsing\n" +
		"- Shopping cart functionality\n\n### Non-Functional Requirements\n" +
		"- System should support 1000 concurrent users\n" +
		"- Page load time < 2 seconds",
	catalog.EnvironmentSetup: "## Environment Setup Guide\n\n### Development Environment\n" +
		"```\nnpm install\nnpm run setup-dev\n```\n\n### Testing Environment\n" +
		"```\ndocker-compose up -d\nnpm run setup-test\n```",
	catalog.TestScenarioGeneration: "## Generated Test Scenarios\n\n### User Authentication\n" +
		"1. **TC001**: Verify login with valid username and password\n" +
		"2. **TC002**: Verify login with invalid credentials\n" +
		"3. **TC003**: Verify password reset functionality\n\n### Shopping Cart\n" +
		"1. **TC004**: Add single item to cart\n" +
		"2. **TC005**: Add multiple items to cart",
}

// SampleOutput is shown for a process that has not produced output yet.
func SampleOutput(c catalog.Catalog, processID string, at time.Time) pipeline.OutputRecord {
	name := c.DisplayName(processID)
	content, ok := sampleContent[processID]
	if !ok {
		content = fmt.Sprintf("# %s Output\n\nRun this process to see actual output here.", name)
	}
	return pipeline.OutputRecord{
		Content:     content,
		Status:      pipeline.OutputSample,
		ProcessType: name,
		ProcessID:   processID,
		Timestamp:   pipeline.Timestamp(at),
	}
}
