package service

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tripflow/backend/internal/domain"
	"github.com/tripflow/backend/internal/logger"
	"github.com/tripflow/backend/pkg/mailer"
	"go.uber.org/zap"
)

// maxReceiptBytes caps a single receipt download.
const maxReceiptBytes = 10 << 20

// ReportResponse is returned after dispatching a trip report email.
type ReportResponse struct {
	Success       bool   `json:"success"`
	EmailID       string `json:"emailId"`
	ReceiptsCount int    `json:"receiptsCount"`
}

// ReportService renders trip summaries and emails them with receipt
// attachments.
type ReportService struct {
	trips    TripStore
	expenses ExpenseStore
	mail     mailer.Sender
	httpc    *http.Client
	tmpl     *template.Template
}

// NewReportService creates a new ReportService. The HTTP client is used to
// fetch receipt bytes and may be nil, in which case a 30-second-timeout
// default is used.
func NewReportService(trips TripStore, expenses ExpenseStore, mail mailer.Sender, httpc *http.Client) *ReportService {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &ReportService{
		trips:    trips,
		expenses: expenses,
		mail:     mail,
		httpc:    httpc,
		tmpl:     template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// SendTripReport emails the summary of a stored trip to the recipient.
func (s *ReportService) SendTripReport(ctx context.Context, userID, tripID, recipient string) (*ReportResponse, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find trip", err)
	}
	if trip == nil || trip.UserID != userID {
		return nil, domain.ErrNotFound("trip not found")
	}
	notes, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list expense notes", err)
	}
	return s.send(ctx, *trip, notes, recipient)
}

// Send renders and dispatches a report from caller-supplied trip data,
// without touching storage.
func (s *ReportService) Send(ctx context.Context, trip domain.Trip, notes []domain.ExpenseNote, recipient string) (*ReportResponse, error) {
	return s.send(ctx, trip, notes, recipient)
}

func (s *ReportService) send(ctx context.Context, trip domain.Trip, notes []domain.ExpenseNote, recipient string) (*ReportResponse, error) {
	detail := domain.NewTripDetail(trip, notes)

	var html strings.Builder
	if err := s.tmpl.Execute(&html, detail); err != nil {
		return nil, domain.ErrInternal("failed to render report", err)
	}

	attachments := s.fetchReceipts(ctx, notes)

	msg := mailer.Message{
		To:          recipient,
		Subject:     fmt.Sprintf("Trip report: %s (%s)", trip.Title, trip.Destination),
		HTML:        html.String(),
		Attachments: attachments,
	}
	emailID, err := s.mail.Send(ctx, msg)
	if err != nil {
		return nil, &domain.AppError{
			Code:    http.StatusBadGateway,
			Message: "failed to send report email",
			Details: map[string]interface{}{"details": err.Error()},
			Err:     err,
		}
	}

	return &ReportResponse{
		Success:       true,
		EmailID:       emailID,
		ReceiptsCount: len(attachments),
	}, nil
}

// fetchReceipts downloads the receipt referenced by each note. A failed
// download skips that receipt rather than failing the whole report.
func (s *ReportService) fetchReceipts(ctx context.Context, notes []domain.ExpenseNote) []mailer.Attachment {
	var attachments []mailer.Attachment
	for i, n := range notes {
		if n.ReceiptURL == nil || *n.ReceiptURL == "" {
			continue
		}
		content, err := s.fetchReceipt(ctx, *n.ReceiptURL)
		if err != nil {
			logger.Get().Warn("failed to fetch receipt",
				zap.String("noteId", n.ID), zap.Error(err))
			continue
		}
		attachments = append(attachments, mailer.Attachment{
			Filename: receiptFilename(i+1, *n.ReceiptURL),
			Content:  content,
		})
	}
	return attachments
}

func (s *ReportService) fetchReceipt(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build receipt request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("receipt fetch returned status %d", resp.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxReceiptBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt body: %w", err)
	}
	return content, nil
}

// receiptFilename derives a stable attachment name from the receipt URL.
func receiptFilename(index int, url string) string {
	base := path.Base(url)
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "." || base == "/" {
		return fmt.Sprintf("receipt-%d", index)
	}
	return fmt.Sprintf("receipt-%d-%s", index, base)
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
	<h1>{{.Trip.Title}}</h1>
	<p>
		<strong>Destination:</strong> {{.Trip.Destination}}<br>
		<strong>From:</strong> {{.Trip.StartDate.Format "2 Jan 2006"}}
		<strong>to:</strong> {{.Trip.EndDate.Format "2 Jan 2006"}}
	</p>
	<h2>Expense notes</h2>
	<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
		<tr><th>Date</th><th>Category</th><th>Description</th><th>Amount</th></tr>
		{{range .Notes}}
		<tr>
			<td>{{.Date.Format "2 Jan 2006"}}</td>
			<td>{{.Category}}</td>
			<td>{{.Description}}</td>
			<td>{{printf "%.2f" .Amount}} &euro;</td>
		</tr>
		{{end}}
	</table>
	<h3>Totals by category</h3>
	<ul>
		{{range $category, $total := .TotalsByCategory}}
		<li>{{$category}}: {{printf "%.2f" $total}} &euro;</li>
		{{end}}
	</ul>
	<p><strong>Total: {{printf "%.2f" .Total}} &euro;</strong></p>
	<p style="color: #7b8794; font-size: 12px;">Generated by TripFlow</p>
</body>
</html>`
