package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
)

func newReadStateService(readRepo *mockReadMarkerRepo, watermarkRepo *mockWatermarkRepo, msgRepo *mockMessageRepo, dmRepo *mockDMRepo) ReadStateService {
	return NewReadStateService(readRepo, watermarkRepo, msgRepo, dmRepo, noopCache{})
}

func TestMarkRead_SkipsSelfAuthored(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	msgRepo.On("FindByIDs", []int64{1, 2, 3}).Return([]*domain.Message{
		{ID: 1, SenderID: "bob"},
		{ID: 2, SenderID: "alice"},
		{ID: 3, SenderID: "carol"},
	}, nil)

	readRepo := new(mockReadMarkerRepo)
	// Only the two messages alice did not write get markers
	readRepo.On("MarkEventMessagesRead", "alice", []int64{1, 3}, mock.Anything).Return(nil)

	svc := newReadStateService(readRepo, new(mockWatermarkRepo), msgRepo, new(mockDMRepo))
	err := svc.MarkRead("alice", domain.MessageKindEvent, []int64{1, 2, 3})

	assert.NoError(t, err)
	readRepo.AssertExpectations(t)
}

func TestMarkRead_AllSelfAuthoredIsNoop(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	msgRepo.On("FindByIDs", []int64{1}).Return([]*domain.Message{
		{ID: 1, SenderID: "alice"},
	}, nil)

	readRepo := new(mockReadMarkerRepo)

	svc := newReadStateService(readRepo, new(mockWatermarkRepo), msgRepo, new(mockDMRepo))
	err := svc.MarkRead("alice", domain.MessageKindEvent, []int64{1})

	assert.NoError(t, err)
	readRepo.AssertNotCalled(t, "MarkEventMessagesRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_EmptyBatchIsNoop(t *testing.T) {
	svc := newReadStateService(new(mockReadMarkerRepo), new(mockWatermarkRepo), new(mockMessageRepo), new(mockDMRepo))

	assert.NoError(t, svc.MarkRead("alice", domain.MessageKindEvent, nil))
}

func TestMarkRead_UnknownKind(t *testing.T) {
	svc := newReadStateService(new(mockReadMarkerRepo), new(mockWatermarkRepo), new(mockMessageRepo), new(mockDMRepo))

	err := svc.MarkRead("alice", "carrier-pigeon", []int64{1})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMarkRead_DMKind(t *testing.T) {
	dmRepo := new(mockDMRepo)
	dmRepo.On("FindMessagesByIDs", []int64{9}).Return([]*domain.DMMessage{
		{ID: 9, SenderID: "bob"},
	}, nil)

	readRepo := new(mockReadMarkerRepo)
	readRepo.On("MarkDMMessagesRead", "alice", []int64{9}, mock.Anything).Return(nil)

	svc := newReadStateService(readRepo, new(mockWatermarkRepo), new(mockMessageRepo), dmRepo)
	err := svc.MarkRead("alice", domain.MessageKindDM, []int64{9})

	assert.NoError(t, err)
	readRepo.AssertExpectations(t)
}

func TestMarkRead_WriteFailureSurfaces(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	msgRepo.On("FindByIDs", []int64{1}).Return([]*domain.Message{
		{ID: 1, SenderID: "bob"},
	}, nil)

	readRepo := new(mockReadMarkerRepo)
	readRepo.On("MarkEventMessagesRead", "alice", []int64{1}, mock.Anything).Return(assert.AnError)

	svc := newReadStateService(readRepo, new(mockWatermarkRepo), msgRepo, new(mockDMRepo))
	err := svc.MarkRead("alice", domain.MessageKindEvent, []int64{1})

	assert.ErrorIs(t, err, common.ErrReadMarkerWrite)
}

func TestAdvanceWatermark_Upserts(t *testing.T) {
	now := time.Now()
	watermarkRepo := new(mockWatermarkRepo)
	watermarkRepo.On("Upsert", "alice", now).Return(nil)

	svc := newReadStateService(new(mockReadMarkerRepo), watermarkRepo, new(mockMessageRepo), new(mockDMRepo))

	assert.NoError(t, svc.AdvanceWatermark("alice", now))
	watermarkRepo.AssertExpectations(t)
}

func TestUnreadCounts(t *testing.T) {
	msgRepo := new(mockMessageRepo)
	msgRepo.On("CountUnread", int64(1), "alice").Return(int64(4), nil)
	dmRepo := new(mockDMRepo)
	dmRepo.On("CountUnread", int64(2), "alice").Return(int64(1), nil)

	svc := newReadStateService(new(mockReadMarkerRepo), new(mockWatermarkRepo), msgRepo, dmRepo)

	eventCount, err := svc.UnreadEventCount(1, "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), eventCount)

	dmCount, err := svc.UnreadDMCount(2, "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), dmCount)
}
