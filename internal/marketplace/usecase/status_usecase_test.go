package usecase_test

import (
	"context"
	"testing"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/usecase"
	"estatehub/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockStatusRepo struct {
	mock.Mock
}

func (m *mockStatusRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatusRepo) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatusRepo) CountAppointments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatusRepo) CountAppointmentsByStatus(ctx context.Context, status model.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func statusProperty(title string, status model.PropertyStatus) model.Property {
	p := validProperty(title)
	p.Status = status
	return p
}

func TestGetStatusAggregates(t *testing.T) {
	projects := newFakeProjectRepo(nil)
	require.NoError(t, projects.Create(context.Background(), &model.Project{
		ID:   primitive.NewObjectID(),
		Name: "Palm Heights",
		Properties: []model.Property{
			statusProperty("Unit 1", model.PropertyStatusAvailable),
			statusProperty("Unit 2", model.PropertyStatusReserved),
			statusProperty("Unit 3", model.PropertyStatusSold),
			statusProperty("Unit 4", model.PropertyStatusSold),
		},
	}))

	counts := &mockStatusRepo{}
	counts.On("CountUsers", mock.Anything).Return(int64(10), nil)
	counts.On("CountUsersByRole", mock.Anything, "buyer").Return(int64(7), nil)
	counts.On("CountUsersByRole", mock.Anything, "broker").Return(int64(2), nil)
	counts.On("CountAppointments", mock.Anything).Return(int64(4), nil)
	counts.On("CountAppointmentsByStatus", mock.Anything, model.AppointmentCompleted).Return(int64(1), nil)

	uc := usecase.NewStatusUsecase(projects, counts, logger.NewLogger())
	summary, err := uc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Properties.Total)
	assert.Equal(t, int64(1), summary.Properties.Available.Count)
	assert.Equal(t, 25, summary.Properties.Available.Percentage)
	assert.Equal(t, int64(2), summary.Properties.Sold.Count)
	assert.Equal(t, 50, summary.Properties.Sold.Percentage)
	assert.Len(t, summary.Properties.Latest, 4)

	assert.Equal(t, int64(10), summary.Users.Total)
	assert.Equal(t, 70, summary.Users.Buyers.Percentage)
	assert.Equal(t, 20, summary.Users.Brokers.Percentage)

	assert.Equal(t, int64(4), summary.Appointments.Total)
	assert.Equal(t, 25, summary.Appointments.Completed.Percentage)
	counts.AssertExpectations(t)
}

func TestGetStatusLatestCapped(t *testing.T) {
	projects := newFakeProjectRepo(nil)
	properties := make([]model.Property, 8)
	for i := range properties {
		properties[i] = statusProperty("Unit", model.PropertyStatusAvailable)
	}
	require.NoError(t, projects.Create(context.Background(), &model.Project{
		ID:         primitive.NewObjectID(),
		Name:       "Palm Heights",
		Properties: properties,
	}))

	counts := &mockStatusRepo{}
	counts.On("CountUsers", mock.Anything).Return(int64(0), nil)
	counts.On("CountUsersByRole", mock.Anything, mock.Anything).Return(int64(0), nil)
	counts.On("CountAppointments", mock.Anything).Return(int64(0), nil)
	counts.On("CountAppointmentsByStatus", mock.Anything, mock.Anything).Return(int64(0), nil)

	uc := usecase.NewStatusUsecase(projects, counts, logger.NewLogger())
	summary, err := uc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Len(t, summary.Properties.Latest, 5)
	// Zero totals must not divide.
	assert.Equal(t, 0, summary.Users.Buyers.Percentage)
	assert.Equal(t, 0, summary.Appointments.Completed.Percentage)
}

func TestGetStatusCountFailure(t *testing.T) {
	projects := newFakeProjectRepo(nil)

	counts := &mockStatusRepo{}
	counts.On("CountUsers", mock.Anything).Return(int64(0), assert.AnError)
	counts.On("CountUsersByRole", mock.Anything, mock.Anything).Return(int64(0), nil)
	counts.On("CountAppointments", mock.Anything).Return(int64(0), nil)
	counts.On("CountAppointmentsByStatus", mock.Anything, mock.Anything).Return(int64(0), nil)

	uc := usecase.NewStatusUsecase(projects, counts, logger.NewLogger())
	_, err := uc.GetStatus(context.Background())

	require.Error(t, err)
}
