package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
)

type stubMessageService struct {
	appendEventFn func(eventID int64, senderID, body string) (*domain.Message, error)
}

func (s *stubMessageService) AppendEventMessage(eventID int64, senderID, body string) (*domain.Message, error) {
	if s.appendEventFn != nil {
		return s.appendEventFn(eventID, senderID, body)
	}
	return &domain.Message{ID: 1, EventID: eventID, SenderID: senderID, Body: body}, nil
}

func (s *stubMessageService) ListEventMessages(int64, string, int64) ([]*domain.Message, error) {
	return nil, nil
}

func (s *stubMessageService) AppendDMMessage(int64, string, string) (*domain.DMMessage, error) {
	return nil, nil
}

func (s *stubMessageService) ListDMMessages(int64, string, int64) ([]*domain.DMMessage, error) {
	return nil, nil
}

type stubReadStateService struct {
	markReadErr error
	markedIDs   []int64
}

func (s *stubReadStateService) MarkRead(userID, kind string, messageIDs []int64) error {
	s.markedIDs = messageIDs
	return s.markReadErr
}

func (s *stubReadStateService) UnreadEventCount(int64, string) (int64, error) { return 0, nil }
func (s *stubReadStateService) UnreadDMCount(int64, string) (int64, error)    { return 0, nil }
func (s *stubReadStateService) AdvanceWatermark(string, time.Time) error      { return nil }

func markReadRouter(readState *stubReadStateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(&stubMessageService{}, readState)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "alice")
		c.Next()
	})
	r.POST("/messages/read", h.MarkRead)
	return r
}

func TestMarkRead_Success(t *testing.T) {
	readState := &stubReadStateService{}
	r := markReadRouter(readState)

	w := httptest.NewRecorder()
	body := `{"kind":"event","message_ids":[1,2,3]}`
	req, _ := http.NewRequest("POST", "/messages/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1, 2, 3}, readState.markedIDs)
}

func TestMarkRead_MarkerWriteFailureIsSwallowed(t *testing.T) {
	readState := &stubReadStateService{markReadErr: common.ErrReadMarkerWrite}
	r := markReadRouter(readState)

	w := httptest.NewRecorder()
	body := `{"kind":"event","message_ids":[1,2]}`
	req, _ := http.NewRequest("POST", "/messages/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Marker writes are best-effort: the batch is idempotent and the next
	// mark-read retries it, so the client sees success.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"marked":true`)
}

func TestMarkRead_LookupFailureIsAnError(t *testing.T) {
	readState := &stubReadStateService{markReadErr: common.ErrStoreUnavailable}
	r := markReadRouter(readState)

	w := httptest.NewRecorder()
	body := `{"kind":"event","message_ids":[1]}`
	req, _ := http.NewRequest("POST", "/messages/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMarkRead_UnknownKindRejected(t *testing.T) {
	readState := &stubReadStateService{}
	r := markReadRouter(readState)

	w := httptest.NewRecorder()
	body := `{"kind":"carrier-pigeon","message_ids":[1]}`
	req, _ := http.NewRequest("POST", "/messages/read", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
