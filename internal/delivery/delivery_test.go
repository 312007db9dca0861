package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"agri-report-workers/internal/common/aws"
	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/common/logger"
	"agri-report-workers/internal/models"
	"agri-report-workers/internal/pipeline"

	"github.com/DATA-DOG/go-sqlmock"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helpers
// ==========================

var generatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestResult(template string, ids map[string]interface{}, report interface{}) *pipeline.Result {
	return &pipeline.Result{
		ReportID:    "report-1",
		Template:    template,
		Encoded:     `{"metadata":{"template":"` + template + `"}}`,
		Identifiers: ids,
		Timestamp:   generatedAt,
		Report:      report,
	}
}

type stubSink struct {
	name  string
	err   error
	mu    sync.Mutex
	calls int
}

func (s *stubSink) Name() string { return s.name }
func (s *stubSink) Deliver(context.Context, *pipeline.Result) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.err
}

type closingSink struct {
	stubSink
	closed bool
}

func (c *closingSink) Close() error {
	c.closed = true
	return nil
}

type fakeIndexer struct {
	index, id string
	body      []byte
	err       error
}

func (f *fakeIndexer) IndexDocument(_ context.Context, index, id string, body []byte) error {
	f.index, f.id, f.body = index, id, body
	return f.err
}

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

type fakeSES struct {
	inputs []*ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type alertReport struct {
	notice models.AlertNotice
	send   bool
}

func (a alertReport) AlertNotice() (models.AlertNotice, bool) { return a.notice, a.send }

// ==========================
// Fanout
// ==========================

func TestFanout_DeliversToEverySinkDespiteFailure(t *testing.T) {
	ok := &stubSink{name: "ok"}
	bad := &stubSink{name: "bad", err: fmt.Errorf("boom")}
	f := NewFanout(logger.NewTestLogger(t), ok, bad)

	err := f.Dispatch(context.Background(), newTestResult("market-intelligence", nil, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, []string{"ok", "bad"}, f.Sinks())
}

func TestFanout_NoSinks(t *testing.T) {
	f := NewFanout(logger.NewTestLogger(t))
	assert.NoError(t, f.Dispatch(context.Background(), newTestResult("market-intelligence", nil, nil)))
}

func TestFanout_CloseClosesClosers(t *testing.T) {
	c := &closingSink{stubSink: stubSink{name: "closer"}}
	f := NewFanout(logger.NewTestLogger(t), &stubSink{name: "plain"}, c)
	require.NoError(t, f.Close())
	assert.True(t, c.closed)
}

// ==========================
// Sinks
// ==========================

func TestArchive_InsertsInsuranceColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestResult("insurance-verification", map[string]interface{}{"claimId": "CLM-9", "farmer": "0xabc"}, nil)
	mock.ExpectExec("INSERT INTO reports").
		WithArgs("report-1", "insurance-verification", false, "0xabc", "CLM-9", sqlmock.AnyArg(), r.Encoded, generatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewArchive(db).Deliver(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchive_NullColumnsAndFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := newTestResult("market-intelligence", map[string]interface{}{"location": "Iowa"}, nil)
	mock.ExpectExec("INSERT INTO reports").
		WithArgs("report-1", "market-intelligence", false, nil, nil, sqlmock.AnyArg(), r.Encoded, generatedAt).
		WillReturnError(fmt.Errorf("connection reset"))

	err = NewArchive(db).Deliver(context.Background(), r)
	assert.True(t, errors.HasCode(err, errors.ErrCodeReportArchiveFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchIndex_EmbedsReport(t *testing.T) {
	es := &fakeIndexer{}
	r := newTestResult("community-alert", map[string]interface{}{"diseaseType": "late_blight"}, nil)

	require.NoError(t, NewSearchIndex(es, "agri-reports").Deliver(context.Background(), r))
	assert.Equal(t, "agri-reports", es.index)
	assert.Equal(t, "report-1", es.id)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(es.body, &doc))
	assert.Equal(t, "community-alert", doc["template"])
	assert.Equal(t, map[string]interface{}{"template": "community-alert"}, doc["report"].(map[string]interface{})["metadata"])
}

func TestSearchIndex_Failure(t *testing.T) {
	es := &fakeIndexer{err: fmt.Errorf("429")}
	err := NewSearchIndex(es, "agri-reports").Deliver(context.Background(), newTestResult("x", nil, nil))
	assert.True(t, errors.HasCode(err, errors.ErrCodeReportIndexFailed))
}

func TestPublisher_WritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w, "agri.reports")

	require.NoError(t, p.Deliver(context.Background(), newTestResult("photo-verification", nil, nil)))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("report-1"), w.msgs[0].Key)
	assert.Equal(t, "template", w.msgs[0].Headers[0].Key)
	assert.Equal(t, []byte("photo-verification"), w.msgs[0].Headers[0].Value)
	assert.Equal(t, []byte(generatedAt.Format(time.RFC3339)), w.msgs[0].Headers[1].Value)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_Failure(t *testing.T) {
	p := NewPublisherWithWriter(&fakeWriter{err: fmt.Errorf("leader not available")}, "agri.reports")
	err := p.Deliver(context.Background(), newTestResult("x", nil, nil))
	assert.True(t, errors.HasCode(err, errors.ErrCodeReportPublishFailed))
}

func TestNotifier(t *testing.T) {
	notice := models.AlertNotice{
		Level:     models.LevelCritical,
		Message:   "CRITICAL ALERT: late_blight outbreak detected in Valley. Immediate action required.",
		Channels:  []string{"SMS", "Push Notification", "Email"},
		Immediate: []string{"Emergency SMS alerts", "Push notifications"},
		Delayed:   []string{"Email alerts"},
	}

	t.Run("alert goes to sns and ses", func(t *testing.T) {
		snsAPI, sesAPI := &fakeSNS{}, &fakeSES{}
		n := NewNotifier(aws.NewSNSClientWithAPI(snsAPI), aws.NewSESClientWithAPI(sesAPI), NotifierConfig{
			TopicARN: "arn:aws:sns:eu-west-1:123:alerts", From: "alerts@example.org", Recipients: []string{"coop@example.org"},
		})

		require.NoError(t, n.Deliver(context.Background(), newTestResult("community-alert", nil, alertReport{notice, true})))
		require.Len(t, snsAPI.inputs, 1)
		assert.Equal(t, notice.Message, awssdk.ToString(snsAPI.inputs[0].Message))
		assert.Equal(t, "Critical community alert", awssdk.ToString(snsAPI.inputs[0].Subject))
		require.Len(t, sesAPI.inputs, 1)
	})

	t.Run("non alertable report is skipped", func(t *testing.T) {
		snsAPI := &fakeSNS{}
		n := NewNotifier(aws.NewSNSClientWithAPI(snsAPI), nil, NotifierConfig{TopicARN: "arn"})
		require.NoError(t, n.Deliver(context.Background(), newTestResult("market-intelligence", nil, struct{}{})))
		require.NoError(t, n.Deliver(context.Background(), newTestResult("community-alert", nil, alertReport{notice, false})))
		assert.Empty(t, snsAPI.inputs)
	})

	t.Run("sns failure", func(t *testing.T) {
		n := NewNotifier(aws.NewSNSClientWithAPI(&fakeSNS{err: fmt.Errorf("throttled")}), nil, NotifierConfig{TopicARN: "arn"})
		err := n.Deliver(context.Background(), newTestResult("community-alert", nil, alertReport{notice, true}))
		assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSendFailed))
	})
}

func TestFromConfig(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &config.Config{}
	cfg.Pipeline.ArchiveReports = true
	cfg.Pipeline.IndexReports = true
	cfg.Notifications.Enabled = true

	f := FromConfig(cfg, Backends{DB: db, Search: &fakeIndexer{}, SNS: aws.NewSNSClientWithAPI(&fakeSNS{})}, logger.NewTestLogger(t))
	assert.Equal(t, []string{"postgres", "elasticsearch", "notification"}, f.Sinks())

	none := FromConfig(&config.Config{}, Backends{DB: db}, logger.NewTestLogger(t))
	assert.Empty(t, none.Sinks())
}
