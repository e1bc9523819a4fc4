package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/events"
	"stlc-manager-be/pkg/pipeline"

	"gopkg.in/gomail.v2"
)

type IRunReportService interface {
	SendRunReport(summary pipeline.Summary) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type runReportService struct {
	dialer      dialer
	senderEmail string
	senderName  string
	recipient   string
	logger      logger.ILogger
}

func NewRunReportService(host string, port int, username, password, senderName, recipient string, log logger.ILogger) IRunReportService {
	return &runReportService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		recipient:   recipient,
		logger:      log,
	}
}

var reportTemplate = template.Must(template.New("report").Parse(`
	<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
		<h2>STLC run {{.RunID}}</h2>
		<p>Workspace: {{.WorkspaceID}} ({{.Mode}})</p>
		<table cellpadding="4">
			{{range .Rows}}<tr><td>{{.ID}}</td><td style="color: {{.Color}};">{{.Status}}</td></tr>{{end}}
		</table>
		{{if .Error}}<p style="color: #c62828;">{{.Failed}}: {{.Error}}</p>{{end}}
		<p>Started {{.Started}}, finished {{.Finished}}.</p>
	</div>
`))

type reportRow struct {
	ID     string
	Status string
	Color  string
}

func statusColor(s pipeline.Status) string {
	switch s {
	case pipeline.StatusCompleted:
		return "#4CAF50"
	case pipeline.StatusError:
		return "#c62828"
	default:
		return "#777"
	}
}

// Subject is "[STLC] <mode> run succeeded|failed|stopped".
func Subject(s pipeline.Summary) string {
	outcome := "succeeded"
	switch {
	case s.Failed != "":
		outcome = "failed"
	case len(s.NotStarted) > 0:
		outcome = "stopped"
	}
	return fmt.Sprintf("[STLC] %s run %s", s.Mode, outcome)
}

func RenderReport(s pipeline.Summary) (string, error) {
	rows := make([]reportRow, 0, len(s.ProcessIDs))
	for _, id := range s.ProcessIDs {
		st := s.Statuses[id]
		if st == "" {
			st = pipeline.StatusPending
		}
		rows = append(rows, reportRow{ID: id, Status: string(st), Color: statusColor(st)})
	}

	var b strings.Builder
	err := reportTemplate.Execute(&b, map[string]interface{}{
		"RunID":       s.RunID,
		"WorkspaceID": s.WorkspaceID,
		"Mode":        s.Mode,
		"Rows":        rows,
		"Failed":      s.Failed,
		"Error":       s.Error,
		"Started":     pipeline.Timestamp(s.StartedAt),
		"Finished":    pipeline.Timestamp(s.FinishedAt),
	})
	return b.String(), err
}

func (s *runReportService) SendRunReport(summary pipeline.Summary) error {
	body, err := RenderReport(summary)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipient)
	m.SetHeader("Subject", Subject(summary))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send run report", map[string]interface{}{
			"run_id": summary.RunID,
			"error":  err.Error(),
		})
		return err
	}

	s.logger.Info("Mailer", "Run report sent", map[string]interface{}{"run_id": summary.RunID, "to": s.recipient})
	return nil
}

// Observer sends a report when a run finishes. Other notifications are ignored.
type Observer struct {
	svc IRunReportService
}

func NewObserver(svc IRunReportService) *Observer {
	return &Observer{svc: svc}
}

func (o *Observer) RunStarted(pipeline.RunInfo, []string)                   {}
func (o *Observer) StatusChanged(pipeline.RunInfo, string, pipeline.Status) {}
func (o *Observer) OutputWritten(pipeline.RunInfo, pipeline.OutputRecord)   {}

func (o *Observer) RunFinished(s pipeline.Summary) {
	go func() { _ = o.svc.SendRunReport(s) }()
}

// EventHandler consumes PIPELINE_FINISHED events from the bus.
func EventHandler(svc IRunReportService) func(ctx context.Context, e events.Event) error {
	return func(ctx context.Context, e events.Event) error {
		summary, err := events.SummaryFrom(e)
		if err != nil {
			return err
		}
		return svc.SendRunReport(summary)
	}
}
