package catalog

// Process ids with dedicated handling.
const (
	CodeReview               = "code-review"
	RequirementAnalysis      = "requirement-analysis"
	TestPlanning             = "test-planning"
	EnvironmentSetup         = "environment-setup"
	TestScenarioGeneration   = "test-scenario-generation"
	TestScenarioOptimization = "test-scenario-optimization"
	TestCaseGeneration       = "test-case-generation"
	TestCaseOptimization     = "test-case-optimization"
	TestCodeGeneration       = "test-code-generation"
	TestExecution            = "test-execution"
	TestReporting            = "test-reporting"
	TestClosure              = "test-closure"
)

// Document types a managed file can be tagged with.
const (
	DocRequirement           = "Requirement Document"
	DocSourceCode            = "Source Code"
	DocTechnicalDesign       = "Technical Design Document"
	DocRequirementsAnalysis  = "Requirements Analysis Report"
	DocCodeReviewReport      = "Code Review Report"
	DocTestPlan              = "Test Plan"
	DocTestScripts           = "Test Scripts"
	DocEnvironmentReport     = "Environment Setup Report"
	DocTestScenarios         = "Test Scenarios"
	DocOptimizedScenarios    = "Optimized Test Scenarios"
	DocTestCases             = "Test Cases"
	DocOptimizedTestCases    = "Optimized Test Cases"
	DocTestExecutionResults  = "Test Execution Results"
	DocTestReport            = "Test Report"
	DocRequirementsDocumentB = "Requirements Document"
)

var documentTypes = []string{
	DocRequirement,
	DocSourceCode,
	DocTechnicalDesign,
	DocRequirementsDocumentB,
	DocRequirementsAnalysis,
	DocCodeReviewReport,
	DocTestPlan,
	DocTestScripts,
	DocEnvironmentReport,
	DocTestScenarios,
	DocOptimizedScenarios,
	DocTestCases,
	DocOptimizedTestCases,
	DocTestExecutionResults,
	DocTestReport,
}

// DocumentTypes lists every accepted file type label.
func DocumentTypes() []string {
	out := make([]string, len(documentTypes))
	copy(out, documentTypes)
	return out
}

func IsDocumentType(t string) bool {
	for _, d := range documentTypes {
		if d == t {
			return true
		}
	}
	return false
}

// TestType is a row of the test-scenario-generation test type table.
type TestType struct {
	Name        string `json:"test_type"`
	Category    string `json:"category"`
	Methodology string `json:"methodology"`
}

var testTypes = []TestType{
	{"Performance and Load Testing", "Non-Functional", "Simulate user activity patterns"},
	{"Integration Testing", "Functional", "Define interactions between connected modules"},
	{"Input Data Variety Testing", "Functional", "Explore inputs with diverse attributes and formats"},
	{"Functional Testing", "Functional", "Cover required functionalities comprehensively"},
	{"Edge Cases and Boundary Testing", "Functional", "Test limits and unexpected scenarios"},
	{"Compatibility Testing", "Non-Functional", "Ensure adaptability across environments"},
	{"User Interface (GUI) Testing", "Functional", "Focus on usability and responsiveness"},
	{"Security Testing", "Non-Functional", "Identify and address potential vulnerabilities intelligently"},
}

func TestTypes() []TestType {
	out := make([]TestType, len(testTypes))
	copy(out, testTypes)
	return out
}

var defaultCatalog = New([]Process{
	{
		ID:   CodeReview,
		Name: "Code Review",
		Details: []string{
			"Automated code review using LLM",
			"Best practices analysis",
			"Security check",
		},
		Inputs: []string{},
		Output: DocCodeReviewReport,
	},
	{
		ID:   RequirementAnalysis,
		Name: "Requirement Analysis",
		Details: []string{
			"Review and analyze project requirements and specifications",
			"Identify testable requirements and acceptance criteria",
			"Create requirement traceability matrix",
		},
		Inputs: []string{DocRequirement, DocTechnicalDesign},
		Output: DocRequirementsAnalysis,
	},
	{
		ID:   TestPlanning,
		Name: "Test Planning",
		Details: []string{
			"Develop comprehensive test strategy and plan",
			"Define test objectives, scope, and approach",
			"Estimate resources and create test schedule",
		},
		Inputs: []string{DocRequirementsAnalysis, DocCodeReviewReport},
		Output: DocTestPlan,
	},
	{
		ID:   EnvironmentSetup,
		Name: "Environment Setup",
		Details: []string{
			"Configure test environment and tools",
			"Set up test data and dependencies",
			"Validate environment readiness",
		},
		Inputs: []string{DocTestScripts, DocTechnicalDesign},
		Output: DocEnvironmentReport,
	},
	{
		ID:   TestScenarioGeneration,
		Name: "Test Scenario Generation",
		Details: []string{
			"Generate comprehensive test scenarios based on input documents",
			"Supports multiple testing types and advanced configuration",
			"AI-powered scenario generation with customizable parameters",
		},
		Inputs:        []string{DocSourceCode, DocTestPlan, DocTechnicalDesign, DocRequirementsDocumentB},
		Output:        DocTestScenarios,
		DefaultPrompt: "Generate test scenarios considering the provided input and selected test type.",
	},
	{
		ID:   TestScenarioOptimization,
		Name: "Test Scenario Optimization",
		Details: []string{
			"Analyze and optimize test scenarios for efficiency",
			"Remove redundant scenarios and identify gaps",
			"Prioritize scenarios based on risk and importance",
		},
		Inputs: []string{DocTestScenarios},
		Output: DocOptimizedScenarios,
	},
	{
		ID:   TestCaseGeneration,
		Name: "Test Case Generation",
		Details: []string{
			"Develop detailed test cases based on optimized scenarios",
			"Ensure test cases align with user requirements",
			"Validate test cases for completeness and accuracy",
		},
		Inputs: []string{DocOptimizedScenarios, DocRequirementsAnalysis},
		Output: DocTestCases,
	},
	{
		ID:   TestCaseOptimization,
		Name: "Test Case Optimization",
		Details: []string{
			"Review and optimize test cases for maximum coverage",
			"Eliminate duplicate test cases and redundancies",
			"Ensure test case effectiveness and efficiency",
		},
		Inputs: []string{DocTestCases},
		Output: DocOptimizedTestCases,
	},
	{
		ID:   TestCodeGeneration,
		Name: "Test Code Generation",
		Details: []string{
			"Create automated test scripts based on test cases",
			"Implement test framework and utilities",
			"Ensure code quality and maintainability",
		},
		Inputs: []string{DocOptimizedTestCases, DocSourceCode},
		Output: DocTestScripts,
	},
	{
		ID:   TestExecution,
		Name: "Test Execution",
		Details: []string{
			"Execute test cases and record results",
			"Track defects and issues",
			"Monitor test progress and coverage",
		},
		Inputs: []string{DocTestScripts, DocEnvironmentReport, DocOptimizedTestCases},
		Output: DocTestExecutionResults,
	},
	{
		ID:   TestReporting,
		Name: "Test Reporting",
		Details: []string{
			"Generate detailed test execution reports",
			"Analyze test results and metrics",
			"Provide recommendations and insights",
		},
		Inputs: []string{DocTestExecutionResults},
		Output: DocTestReport,
	},
	{
		ID:   TestClosure,
		Name: "Test Closure",
		Details: []string{
			"Verify all testing activities are completed",
			"Archive test artifacts and documentation",
			"Conduct lessons learned and process improvement",
		},
		Inputs: []string{DocTestReport, DocTestExecutionResults},
		Output: "Test Closure Report",
	},
})
