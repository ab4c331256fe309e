package services

import (
	"fmt"
	"html"
	"strings"

	"qc-registry/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier is told about every saved batch that contains NG records.
type Notifier interface {
	NotifyNG(category models.QCCategory, records []models.QCRecord) error
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       []string
}

// MailNotifier mails NG alerts over SMTP. It does nothing when no host or no
// recipient is configured.
type MailNotifier struct {
	cfg    MailConfig
	sender gomail.Sender
	log    *zap.Logger
}

func NewMailNotifier(cfg MailConfig, log *zap.Logger) *MailNotifier {
	return &MailNotifier{cfg: cfg, log: log}
}

func (n *MailNotifier) Enabled() bool {
	return n.cfg.Host != "" && len(n.cfg.To) > 0
}

func (n *MailNotifier) NotifyNG(category models.QCCategory, records []models.QCRecord) error {
	if !n.Enabled() {
		return nil
	}
	msg := n.buildMessage(category, records)
	if msg == nil {
		return nil
	}

	var err error
	if n.sender != nil {
		err = gomail.Send(n.sender, msg)
	} else {
		err = gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password).DialAndSend(msg)
	}
	if err != nil {
		return fmt.Errorf("send NG alert: %w", err)
	}
	n.log.Info("NG alert sent", zap.String("category", category.String()), zap.Strings("to", n.cfg.To))
	return nil
}

func (n *MailNotifier) buildMessage(category models.QCCategory, records []models.QCRecord) *gomail.Message {
	var rows strings.Builder
	count := 0
	for _, r := range records {
		if !r.Result.Failed() {
			continue
		}
		count++
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(r.Date),
			html.EscapeString(r.PartName),
			html.EscapeString(r.PartNo),
			html.EscapeString(r.CustomFields.NgQty),
			html.EscapeString(r.WorkerName))
	}
	if count == 0 {
		return nil
	}

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>%d NG record(s) saved in %s</h3>
				<table border="1" cellpadding="4">
					<tr><th>Date</th><th>Part Name</th><th>Part No</th><th>NG Qty</th><th>Operator</th></tr>
					%s
				</table>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, count, html.EscapeString(category.String()), rows.String())

	from := n.cfg.User
	if from == "" {
		from = "qc-registry@localhost"
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", n.cfg.To...)
	msg.SetHeader("Subject", fmt.Sprintf("NG alert: %s", category))
	msg.SetBody("text/html", body)
	return msg
}
