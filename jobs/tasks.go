package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/recipe-api/recipe-api/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeMail greets a freshly registered user.
	TaskTypeWelcomeMail = "mail:welcome"
)

// WelcomeMailPayload describes the recipient of a welcome mail.
type WelcomeMailPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NewWelcomeMailTask constructs an Asynq task.
func NewWelcomeMailTask(payload WelcomeMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeMail, data, asynq.MaxRetry(5)), nil
}

// WelcomeTaskID derives a stable task id so a user is greeted at most once.
func WelcomeTaskID(userID int64) string {
	return uuid.NewSHA1(uuid.Nil, []byte("welcome:"+strconv.FormatInt(userID, 10))).String()
}

// WelcomeMailJob renders and delivers welcome mails.
type WelcomeMailJob struct {
	Mailer  Mailer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewWelcomeMailJob initialises the welcome mail handler.
func NewWelcomeMailJob(mailer Mailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *WelcomeMailJob {
	return &WelcomeMailJob{Mailer: mailer, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTypeWelcomeMail tasks.
func (j *WelcomeMailJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Mailer == nil {
		return errors.New("welcome mail: handler not configured")
	}
	var payload WelcomeMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("welcome mail: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if strings.TrimSpace(payload.Email) == "" {
		return fmt.Errorf("welcome mail: empty recipient: %w", asynq.SkipRetry)
	}

	tracker := j.Metrics.Track("mail_welcome")
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.Int64("user_id", payload.UserID))
	if err = j.Mailer.Send(ctx, welcomeMessage(payload)); err != nil {
		logger.Error("send welcome mail", slog.Any("error", err))
		return err
	}
	logger.Info("welcome mail sent")
	return nil
}

func welcomeMessage(payload WelcomeMailPayload) Message {
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = payload.Email
	}
	return Message{
		To:      payload.Email,
		Subject: "Welcome to Recipe API",
		Body: fmt.Sprintf("Hi %s,\r\n\r\nYour account is ready. Request a token at /api/user/token/ to start adding tags and ingredients.\r\n",
			name),
	}
}

func (j *WelcomeMailJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeWelcomeMail))
	}
	return slog.Default().With(slog.String("job", TaskTypeWelcomeMail))
}
