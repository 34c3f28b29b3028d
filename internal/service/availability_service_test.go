package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type mockSlotsRepo struct {
	slots    []models.AvailabilitySlot
	replaced bool
	upserted *models.AvailabilitySlot
}

func (m *mockSlotsRepo) ReplaceAll(ctx context.Context, teacherID string, slots []models.AvailabilitySlot) error {
	m.replaced = true
	for i := range slots {
		slots[i].TeacherID = teacherID
	}
	m.slots = slots
	return nil
}

func (m *mockSlotsRepo) Upsert(ctx context.Context, slot *models.AvailabilitySlot) error {
	m.upserted = slot
	for i, existing := range m.slots {
		if existing.DayOfWeek == slot.DayOfWeek && existing.StartTime == slot.StartTime {
			m.slots[i] = *slot
			return nil
		}
	}
	m.slots = append(m.slots, *slot)
	return nil
}

func (m *mockSlotsRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	var available []models.AvailabilitySlot
	for _, slot := range m.slots {
		if slot.Available {
			available = append(available, slot)
		}
	}
	return available, nil
}

func TestSetAvailabilityReplacesSchedule(t *testing.T) {
	slots := &mockSlotsRepo{slots: []models.AvailabilitySlot{
		{TeacherID: "teach-1", DayOfWeek: "Friday", StartTime: "09:00", EndTime: "17:00", Available: true},
	}}
	teachers := &mockTeacherDetailRepo{detail: pianoTeacher(3, 10)}
	svc := NewAvailabilityService(slots, teachers, nil, nil)

	result, err := svc.SetAvailability(context.Background(), models.SetAvailabilityRequest{
		Email: "Sarah@Example.com",
		Availability: []models.AvailabilitySlotSpec{
			{DayOfWeek: "Monday", StartTime: "10:00", EndTime: "14:00", IsAvailable: true},
			{DayOfWeek: "Wednesday", StartTime: "13:00", EndTime: "18:00", IsAvailable: false},
		},
	})

	require.NoError(t, err)
	assert.True(t, slots.replaced)
	require.Len(t, slots.slots, 2)
	require.Len(t, result, 1)
	assert.Equal(t, "Monday", result[0].DayOfWeek)
	assert.Equal(t, "teach-1", result[0].TeacherID)
}

func TestSetAvailabilityUnknownDay(t *testing.T) {
	slots := &mockSlotsRepo{}
	teachers := &mockTeacherDetailRepo{detail: pianoTeacher(3, 10)}
	svc := NewAvailabilityService(slots, teachers, nil, nil)

	_, err := svc.SetAvailability(context.Background(), models.SetAvailabilityRequest{
		Email: "sarah@example.com",
		Availability: []models.AvailabilitySlotSpec{
			{DayOfWeek: "Moonday", StartTime: "10:00", EndTime: "14:00", IsAvailable: true},
		},
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, slots.replaced)
}

func TestSetAvailabilityEmptyPayload(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotsRepo{}, &mockTeacherDetailRepo{detail: pianoTeacher(3, 10)}, nil, nil)

	_, err := svc.SetAvailability(context.Background(), models.SetAvailabilityRequest{
		Email:        "sarah@example.com",
		Availability: nil,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAddAvailabilityUpsertsSlot(t *testing.T) {
	slots := &mockSlotsRepo{slots: []models.AvailabilitySlot{
		{TeacherID: "teach-1", DayOfWeek: "Monday", StartTime: "10:00", EndTime: "12:00", Available: false},
	}}
	teachers := &mockTeacherDetailRepo{detail: pianoTeacher(3, 10)}
	svc := NewAvailabilityService(slots, teachers, nil, nil)

	result, err := svc.AddAvailability(context.Background(), models.AddAvailabilityRequest{
		Email:     "sarah@example.com",
		Day:       "Monday",
		StartTime: "10:00",
		EndTime:   "15:00",
	})

	require.NoError(t, err)
	require.NotNil(t, slots.upserted)
	assert.Equal(t, "teach-1", slots.upserted.TeacherID)
	assert.True(t, slots.upserted.Available)
	require.Len(t, result, 1)
	assert.Equal(t, "15:00", result[0].EndTime)
	assert.True(t, result[0].Available)
}

func TestAddAvailabilityUnknownTeacher(t *testing.T) {
	svc := NewAvailabilityService(&mockSlotsRepo{}, &mockTeacherDetailRepo{}, nil, nil)

	_, err := svc.AddAvailability(context.Background(), models.AddAvailabilityRequest{
		Email:     "nobody@example.com",
		Day:       "Tuesday",
		StartTime: "10:00",
		EndTime:   "11:00",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetAvailability(t *testing.T) {
	slots := &mockSlotsRepo{slots: []models.AvailabilitySlot{
		{TeacherID: "teach-1", DayOfWeek: "Monday", StartTime: "10:00", EndTime: "14:00", Available: true},
		{TeacherID: "teach-1", DayOfWeek: "Thursday", StartTime: "09:00", EndTime: "12:00", Available: true},
	}}
	teachers := &mockTeacherDetailRepo{detail: pianoTeacher(3, 10)}
	svc := NewAvailabilityService(slots, teachers, nil, nil)

	result, err := svc.GetAvailability(context.Background(), models.GetAvailabilityRequest{Email: "sarah@example.com"})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Thursday", result[1].DayOfWeek)
}
