package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"estatehub/internal/marketplace/domain/model"
	"estatehub/internal/marketplace/domain/repository"
	apperrors "estatehub/internal/shared/errors"
	"estatehub/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CountWithPercentage pairs a count with its share of a total.
type CountWithPercentage struct {
	Count      int64 `json:"count"`
	Percentage int   `json:"percentage"`
}

// LatestProperty is the trimmed property view shown on the dashboard.
type LatestProperty struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	Status      model.PropertyStatus `json:"status"`
	ProjectName string               `json:"projectName"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// StatusSummary is the dashboard aggregate over properties, users and
// appointments.
type StatusSummary struct {
	Properties struct {
		Total     int64               `json:"total"`
		Available CountWithPercentage `json:"available"`
		Reserved  CountWithPercentage `json:"reserved"`
		Sold      CountWithPercentage `json:"sold"`
		Latest    []LatestProperty    `json:"latest"`
	} `json:"properties"`
	Users struct {
		Total   int64               `json:"total"`
		Buyers  CountWithPercentage `json:"buyers"`
		Brokers CountWithPercentage `json:"brokers"`
	} `json:"users"`
	Appointments struct {
		Total     int64               `json:"total"`
		Completed CountWithPercentage `json:"completed"`
	} `json:"appointments"`
}

// StatusUsecaseInterface exposes the dashboard aggregate.
type StatusUsecaseInterface interface {
	GetStatus(ctx context.Context) (*StatusSummary, error)
}

// StatusUsecase computes marketplace-wide statistics. The count queries fan
// out concurrently; property statistics come from one projects load.
type StatusUsecase struct {
	projects repository.ProjectRepository
	counts   repository.StatusRepository
	log      logger.Logger
}

// NewStatusUsecase creates the status usecase.
func NewStatusUsecase(projects repository.ProjectRepository, counts repository.StatusRepository, log logger.Logger) *StatusUsecase {
	return &StatusUsecase{
		projects: projects,
		counts:   counts,
		log:      log.WithComponent("status"),
	}
}

const latestPropertiesLimit = 5

// GetStatus builds the dashboard summary.
func (uc *StatusUsecase) GetStatus(ctx context.Context) (*StatusSummary, error) {
	projects, err := uc.projects.List(ctx, "")
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to load projects")
	}

	var (
		totalUsers, buyers, brokers int64
		totalAppts, completedAppts  int64
	)
	countJobs := []struct {
		dest *int64
		run  func(context.Context) (int64, error)
	}{
		{&totalUsers, uc.counts.CountUsers},
		{&buyers, func(ctx context.Context) (int64, error) { return uc.counts.CountUsersByRole(ctx, "buyer") }},
		{&brokers, func(ctx context.Context) (int64, error) { return uc.counts.CountUsersByRole(ctx, "broker") }},
		{&totalAppts, uc.counts.CountAppointments},
		{&completedAppts, func(ctx context.Context) (int64, error) {
			return uc.counts.CountAppointmentsByStatus(ctx, model.AppointmentCompleted)
		}},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(countJobs))
	for i, job := range countJobs {
		wg.Add(1)
		go func(i int, dest *int64, run func(context.Context) (int64, error)) {
			defer wg.Done()
			n, err := run(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			*dest = n
		}(i, job.dest, job.run)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, apperrors.WrapError(err, "failed to count documents")
		}
	}

	summary := &StatusSummary{}

	var total, available, reserved, sold int64
	latest := make([]LatestProperty, 0)
	for _, project := range projects {
		for _, property := range project.Properties {
			total++
			switch property.Status {
			case model.PropertyStatusAvailable:
				available++
			case model.PropertyStatusReserved:
				reserved++
			case model.PropertyStatusSold:
				sold++
			}
			latest = append(latest, LatestProperty{
				ID:          property.ID,
				Title:       property.Title,
				Status:      property.Status,
				ProjectName: project.Name,
				CreatedAt:   property.ID.Timestamp(),
			})
		}
	}
	sort.Slice(latest, func(i, j int) bool { return latest[i].CreatedAt.After(latest[j].CreatedAt) })
	if len(latest) > latestPropertiesLimit {
		latest = latest[:latestPropertiesLimit]
	}

	summary.Properties.Total = total
	summary.Properties.Available = withPercentage(available, total)
	summary.Properties.Reserved = withPercentage(reserved, total)
	summary.Properties.Sold = withPercentage(sold, total)
	summary.Properties.Latest = latest

	summary.Users.Total = totalUsers
	summary.Users.Buyers = withPercentage(buyers, totalUsers)
	summary.Users.Brokers = withPercentage(brokers, totalUsers)

	summary.Appointments.Total = totalAppts
	summary.Appointments.Completed = withPercentage(completedAppts, totalAppts)

	return summary, nil
}

func withPercentage(value, total int64) CountWithPercentage {
	pct := 0
	if total > 0 {
		pct = int(float64(value)/float64(total)*100 + 0.5)
	}
	return CountWithPercentage{Count: value, Percentage: pct}
}
