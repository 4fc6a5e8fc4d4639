package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tmtperez/track-my-bids/internal/mailer"
	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

const followUpTemplate = `<p>Hello,</p>
<p>Following up on <b>{{.ProjectName}}</b>.</p>
<ul>
  <li>Client: {{.ClientName}}</li>
  <li>Proposal Date: {{.ProposalDate}}</li>
  <li>Due Date: {{.DueDate}}</li>
</ul>
<p>Please let us know if you have any questions.</p>
`

var followUpTmpl = template.Must(template.New("follow_up").Parse(followUpTemplate))

type followUpData struct {
	ProjectName  string
	ClientName   string
	ProposalDate string
	DueDate      string
}

// FollowUpService emails bid contacts on the bid's follow-up date. It runs
// daily from a cron schedule and can also be triggered manually.
type FollowUpService struct {
	bidRepo *repository.BidRepository
	mail    *mailer.Client
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewFollowUpService(bidRepo *repository.BidRepository, mail *mailer.Client, logger *zap.Logger) *FollowUpService {
	return &FollowUpService{bidRepo: bidRepo, mail: mail, logger: logger}
}

// Start schedules the daily run. The schedule is standard five-field cron.
func (s *FollowUpService) Start(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.logger.Error("follow-up run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule follow-ups: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (s *FollowUpService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunResult summarizes one follow-up pass.
type RunResult struct {
	Due     int `json:"due"`
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Run sends follow-up emails for every bid due today. Bids whose contact
// has no email are skipped; individual send failures do not stop the pass.
func (s *FollowUpService) Run(ctx context.Context) (*RunResult, error) {
	bids, err := s.bidRepo.ListFollowUpsDue(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list follow-ups due: %w", err)
	}

	result := &RunResult{Due: len(bids)}
	for i := range bids {
		b := &bids[i]
		if b.Contact == nil || b.Contact.Email == "" {
			s.logger.Warn("skipping follow-up, no contact email",
				zap.Uint("bid_id", b.ID),
				zap.String("project", b.ProjectName))
			result.Skipped++
			continue
		}

		body, err := renderFollowUp(b)
		if err != nil {
			s.logger.Error("render follow-up failed", zap.Uint("bid_id", b.ID), zap.Error(err))
			result.Failed++
			continue
		}

		subject := "Follow-up: " + b.ProjectName
		if _, err := s.mail.SendHTML(ctx, b.Contact.Email, b.Contact.Name, subject, body); err != nil {
			s.logger.Error("follow-up email failed",
				zap.Uint("bid_id", b.ID),
				zap.String("to", b.Contact.Email),
				zap.Error(err))
			result.Failed++
			continue
		}

		s.logger.Info("follow-up sent",
			zap.Uint("bid_id", b.ID),
			zap.String("to", b.Contact.Email))
		result.Sent++
	}
	return result, nil
}

func renderFollowUp(b *entity.Bid) (string, error) {
	data := followUpData{
		ProjectName:  b.ProjectName,
		ClientName:   "—",
		ProposalDate: "—",
		DueDate:      "—",
	}
	if b.ClientCompany != nil {
		data.ClientName = b.ClientCompany.Name
	}
	if b.ProposalDate != nil {
		data.ProposalDate = b.ProposalDate.Format("2006-01-02")
	}
	if b.DueDate != nil {
		data.DueDate = b.DueDate.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := followUpTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
