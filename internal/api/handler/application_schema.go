package handler

import (
	"time"

	"github.com/onboardly/onboarding-system/internal/core/ports"
)

type seekerApplicationItem struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	SessionTitle string    `json:"session_title"`
	Organization string    `json:"organization"`
	Status       string    `json:"status"`
	DateApplied  time.Time `json:"date_applied"`
}

type orgApplicationItem struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	SessionTitle   string    `json:"session_title"`
	JobSeekerID    string    `json:"job_seeker_id"`
	JobSeekerName  string    `json:"job_seeker_name"`
	JobSeekerEmail string    `json:"job_seeker_email"`
	Status         string    `json:"status"`
	DateApplied    time.Time `json:"date_applied"`
}

func toSeekerApplicationList(views []ports.ApplicationView) []seekerApplicationItem {
	items := make([]seekerApplicationItem, 0, len(views))
	for _, v := range views {
		items = append(items, seekerApplicationItem{
			ID:           v.ID,
			SessionID:    v.SessionID,
			SessionTitle: v.SessionTitle,
			Organization: v.Organization,
			Status:       toExternalStatus(v.Status),
			DateApplied:  v.DateApplied,
		})
	}
	return items
}

func toOrgApplicationList(views []ports.OrgApplicationView) []orgApplicationItem {
	items := make([]orgApplicationItem, 0, len(views))
	for _, v := range views {
		items = append(items, orgApplicationItem{
			ID:             v.ID,
			SessionID:      v.SessionID,
			SessionTitle:   v.SessionTitle,
			JobSeekerID:    v.JobSeekerID,
			JobSeekerName:  v.JobSeekerName,
			JobSeekerEmail: v.JobSeekerEmail,
			Status:         toExternalStatus(v.Status),
			DateApplied:    v.DateApplied,
		})
	}
	return items
}
