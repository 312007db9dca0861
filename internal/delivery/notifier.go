package delivery

import (
	"context"
	"fmt"
	"strings"

	"agri-report-workers/internal/common/aws"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"
)

// Notifier sends community alerts. Immediate channels go to an SNS topic and
// delayed channels are mailed through SES.
type Notifier struct {
	sns        *aws.SNSClient
	ses        *aws.SESClient
	topicARN   string
	from       string
	recipients []string
}

type NotifierConfig struct {
	TopicARN   string
	From       string
	Recipients []string
}

func NewNotifier(snsClient *aws.SNSClient, sesClient *aws.SESClient, cfg NotifierConfig) *Notifier {
	return &Notifier{
		sns:        snsClient,
		ses:        sesClient,
		topicARN:   cfg.TopicARN,
		from:       cfg.From,
		recipients: cfg.Recipients,
	}
}

func (n *Notifier) Name() string { return "notification" }

func (n *Notifier) Deliver(ctx context.Context, r *pipeline.Result) error {
	alertable, ok := r.Report.(models.Alertable)
	if !ok {
		return nil
	}
	notice, ok := alertable.AlertNotice()
	if !ok {
		return nil
	}

	subject := fmt.Sprintf("%s community alert", notice.Level)

	if n.sns != nil && n.topicARN != "" && len(notice.Immediate) > 0 {
		attrs := map[string]string{
			"level":    string(notice.Level),
			"reportId": r.ReportID,
			"channels": strings.Join(notice.Immediate, ","),
		}
		if _, err := n.sns.PublishToTopic(ctx, n.topicARN, subject, notice.Message, attrs); err != nil {
			return errors.NewNotificationSendFailedError("sns", err)
		}
	}

	if n.ses != nil && n.from != "" && len(n.recipients) > 0 && len(notice.Delayed) > 0 {
		body := notice.Message + "\n\nChannels: " + strings.Join(notice.Channels, ", ") + "\nReport: " + r.ReportID
		if _, err := n.ses.SendTextEmail(ctx, n.from, n.recipients, subject, body); err != nil {
			return errors.NewNotificationSendFailedError("ses", err)
		}
	}
	return nil
}
