package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/example/jobdesk/backend/internal/metrics"
	"github.com/example/jobdesk/backend/internal/models"
)

// DemoMarker is the store marker set once demo data has been loaded.
const DemoMarker = "demo_loaded"

func mustTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// demoRequests are ordered oldest first so references ascend with submission.
func demoRequests() []models.Request {
	return []models.Request{
		{
			RequestedBy:      "Prof. Razali Hassan",
			Email:            "razali@example.edu",
			Department:       "Faculty of Engineering",
			HODEmail:         "dean.eng@example.edu",
			RequestedDate:    "2024-12-20",
			DueDate:          "2025-01-15",
			JobPurpose:       "Department website revamp for Faculty of Engineering.",
			Category:         models.CategoryWebsite,
			Subtypes:         []string{"New Page / Section", "Website Update / Amendment"},
			Description:      "<p>Complete redesign of the engineering faculty webpage. Updated staff directory, new research page, and updated programme pages.</p>",
			DescriptionPlain: "Complete redesign of the engineering faculty webpage.",
			Status:           models.StatusCompleted,
			AssignedTo:       ptr("Syazwan Kamarudin"),
			InternalNotes:    "Delivered and signed off by faculty.",
			SubmittedAt:      mustTime("2024-12-20T09:00:00Z"),
			ApprovedAt:       ptr(mustTime("2024-12-21T09:00:00Z")),
			Timeline: []models.TimelineEntry{
				{Action: models.SubmittedAction, By: "Prof. Razali Hassan", Date: mustTime("2024-12-20T09:00:00Z")},
				{Action: actionEndorsed, By: "HOD", Date: mustTime("2024-12-21T09:00:00Z")},
				{Action: "Status changed to: In Progress", By: "Digital Comms Team", Date: mustTime("2024-12-23T09:00:00Z")},
				{Action: "Status changed to: Completed", By: "Digital Comms Team", Date: mustTime("2025-01-14T09:00:00Z")},
			},
		},
		{
			RequestedBy:      "Tan Mei Ling",
			Email:            "meiling@example.edu",
			Department:       "Student Affairs",
			HODEmail:         "head.sa@example.edu",
			RequestedDate:    "2025-01-05",
			DueDate:          "2025-01-23",
			JobPurpose:       "Photo & video coverage for Convocation Ceremony 2025.",
			Category:         models.CategoryEvent,
			Subtypes:         []string{"Photo & Video"},
			Description:      "<p>Full coverage for 15th Convocation. Main Hall. ~400 graduates. Individual shots, group stage, highlight reel.</p>",
			DescriptionPlain: "Full coverage for 15th Convocation. Main Hall.",
			Status:           models.StatusPendingApproval,
			SubmittedAt:      mustTime("2025-01-05T10:00:00Z"),
			Timeline: []models.TimelineEntry{
				{Action: models.SubmittedAction, By: "Tan Mei Ling", Date: mustTime("2025-01-05T10:00:00Z")},
			},
		},
		{
			RequestedBy:      "Ahmad Fauzi",
			Email:            "ahmad@example.edu",
			Department:       "Marketing & Communications",
			HODEmail:         "head.mkt@example.edu",
			RequestedDate:    "2025-01-08",
			DueDate:          "2025-01-28",
			JobPurpose:       "Social media campaign for Open Day recruitment.",
			Category:         models.CategoryDigital,
			Subtypes:         []string{"Social Media Promo", "Digital Ad Campaign"},
			Description:      "<p>Series of 5 posts for Instagram and Facebook for January Open Day. Target: SPM leavers and parents. Tone: aspirational, modern.</p>",
			DescriptionPlain: "Series of 5 posts for Instagram and Facebook for January Open Day.",
			Status:           models.StatusApproved,
			AssignedTo:       ptr("Hafiz Nordin"),
			SubmittedAt:      mustTime("2025-01-08T14:10:00Z"),
			ApprovedAt:       ptr(mustTime("2025-01-09T10:30:00Z")),
			Timeline: []models.TimelineEntry{
				{Action: models.SubmittedAction, By: "Ahmad Fauzi", Date: mustTime("2025-01-08T14:10:00Z")},
				{Action: actionEndorsed, By: "HOD", Date: mustTime("2025-01-09T10:30:00Z")},
				{Action: "Assigned to Hafiz Nordin", By: "Digital Comms Team", Date: mustTime("2025-01-10T09:00:00Z")},
			},
		},
		{
			RequestedBy:      "Dr. Priya Nair",
			Email:            "priya@example.edu",
			Department:       "Faculty of Health Sciences",
			HODEmail:         "dean.health@example.edu",
			RequestedDate:    "2025-01-10",
			DueDate:          "2025-02-01",
			JobPurpose:       "Promotional poster for annual Health Sciences symposium.",
			Category:         models.CategoryPrinted,
			Subtypes:         []string{"Poster"},
			Description:      `<p>Professional poster for annual symposium. Theme: "Advancing Healthcare in the Digital Age". Speakers: Dato Dr. Hamdan and Dr. Lim Wei Lin.</p>`,
			DescriptionPlain: "Professional poster for annual symposium.",
			References:       "drive.google.com/...",
			Status:           models.StatusInProgress,
			AssignedTo:       ptr("Amirah Zainudin"),
			InternalNotes:    "First draft 80% done. Awaiting speaker photos.",
			SubmittedAt:      mustTime("2025-01-10T08:22:00Z"),
			ApprovedAt:       ptr(mustTime("2025-01-11T09:00:00Z")),
			Timeline: []models.TimelineEntry{
				{Action: models.SubmittedAction, By: "Dr. Priya Nair", Date: mustTime("2025-01-10T08:22:00Z")},
				{Action: actionEndorsed, By: "HOD", Date: mustTime("2025-01-11T09:00:00Z")},
				{Action: "Assigned to Amirah Zainudin", By: "Digital Comms Team", Date: mustTime("2025-01-12T10:00:00Z")},
				{Action: "Status changed to: In Progress", By: "Digital Comms Team", Date: mustTime("2025-01-13T10:00:00Z")},
			},
		},
	}
}

// SeedDemo loads the demo requests once. Each fixture gets a freshly minted
// reference, so seeding never collides with existing records.
func (s *RequestService) SeedDemo(ctx context.Context) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	loaded, err := s.store.Marker(ctx, DemoMarker)
	if err != nil {
		return 0, errors.Wrap(err, "read demo marker")
	}
	if loaded {
		metrics.RecordOperation("seed_demo", "already_loaded")
		return 0, ErrDemoLoaded
	}

	n := 0
	for _, req := range demoRequests() {
		seq, err := s.store.NextSequence(ctx)
		if err != nil {
			return n, errors.Wrap(err, "allocate reference")
		}
		req.Seq = seq
		req.Reference = models.FormatReference(s.prefix, req.SubmittedAt.In(s.loc).Year(), seq)
		if err := s.store.Insert(ctx, &req); err != nil {
			return n, errors.Wrapf(err, "seed %s", req.Reference)
		}
		n++
	}
	if err := s.store.SetMarker(ctx, DemoMarker); err != nil {
		return n, errors.Wrap(err, "set demo marker")
	}
	metrics.RecordOperation("seed_demo", "ok")
	s.log.WithField("count", n).Info("demo requests loaded")
	return n, nil
}
