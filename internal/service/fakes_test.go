package service

import (
	"context"
	"io"
	"time"

	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type fakePermissions struct {
	items  map[string]models.Permission
	usedBy map[string][]string
}

func newFakePermissions() *fakePermissions {
	return &fakePermissions{items: map[string]models.Permission{}, usedBy: map[string][]string{}}
}

func (f *fakePermissions) Create(_ context.Context, p models.Permission) error {
	for _, existing := range f.items {
		if existing.Key() == p.Key() {
			return repository.ErrDuplicate
		}
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakePermissions) GetByID(_ context.Context, id string) (models.Permission, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Permission{}, repository.ErrPermissionNotFound
	}
	return p, nil
}

func (f *fakePermissions) List(_ context.Context, module string, _ models.Page) ([]models.Permission, int, error) {
	var out []models.Permission
	for _, p := range f.items {
		if module == "" || p.Module == module {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePermissions) Update(_ context.Context, id string, upd repository.PermissionUpdate, _ models.Actor) error {
	p, ok := f.items[id]
	if !ok {
		return repository.ErrPermissionNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.APIPath != nil {
		p.APIPath = *upd.APIPath
	}
	if upd.Method != nil {
		p.Method = *upd.Method
	}
	if upd.Module != nil {
		p.Module = *upd.Module
	}
	f.items[id] = p
	return nil
}

func (f *fakePermissions) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrPermissionNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakePermissions) RoleIDsUsing(_ context.Context, id string) ([]string, error) {
	return f.usedBy[id], nil
}

type fakeJobs struct {
	items   map[string]models.Job
	updated []models.Job
}

func (f *fakeJobs) Create(_ context.Context, job models.Job) error {
	f.items[job.ID] = job
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (models.Job, error) {
	job, ok := f.items[id]
	if !ok {
		return models.Job{}, repository.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobs) List(_ context.Context, _ repository.JobFilter, _ models.Page) ([]models.Job, int, error) {
	var out []models.Job
	for _, job := range f.items {
		out = append(out, job)
	}
	return out, len(out), nil
}

func (f *fakeJobs) ListOpen(_ context.Context, at time.Time) ([]models.Job, error) {
	var out []models.Job
	for _, job := range f.items {
		if job.IsActive && !job.StartDate.After(at) && !job.EndDate.Before(at) {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeJobs) Update(_ context.Context, job models.Job, _ models.Actor) error {
	if _, ok := f.items[job.ID]; !ok {
		return repository.ErrJobNotFound
	}
	f.items[job.ID] = job
	f.updated = append(f.updated, job)
	return nil
}

func (f *fakeJobs) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeResumes struct {
	items map[string]models.Resume
}

func (f *fakeResumes) Create(_ context.Context, r models.Resume) error {
	f.items[r.ID] = r
	return nil
}

func (f *fakeResumes) GetByID(_ context.Context, id string) (models.Resume, error) {
	r, ok := f.items[id]
	if !ok {
		return models.Resume{}, repository.ErrResumeNotFound
	}
	return r, nil
}

func (f *fakeResumes) List(_ context.Context, status models.ResumeStatus, _ models.Page) ([]models.Resume, int, error) {
	var out []models.Resume
	for _, r := range f.items {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeResumes) ListByUser(_ context.Context, userID string) ([]models.Resume, error) {
	var out []models.Resume
	for _, r := range f.items {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResumes) UpdateStatus(_ context.Context, id string, entry models.ResumeHistory) error {
	r, ok := f.items[id]
	if !ok {
		return repository.ErrResumeNotFound
	}
	r.Status = entry.Status
	r.History = append(r.History, entry)
	f.items[id] = r
	return nil
}

func (f *fakeResumes) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	if _, ok := f.items[id]; !ok {
		return repository.ErrResumeNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeSubscribers keys subscriptions by email.
type fakeSubscribers struct {
	byEmail map[string]models.Subscriber
}

func (f *fakeSubscribers) Create(_ context.Context, s models.Subscriber) error {
	if _, ok := f.byEmail[s.Email]; ok {
		return repository.ErrDuplicate
	}
	f.byEmail[s.Email] = s
	return nil
}

func (f *fakeSubscribers) GetByID(_ context.Context, id string) (models.Subscriber, error) {
	for _, s := range f.byEmail {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Subscriber{}, repository.ErrSubscriberNotFound
}

func (f *fakeSubscribers) FindByEmail(_ context.Context, email string) (models.Subscriber, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return models.Subscriber{}, repository.ErrSubscriberNotFound
	}
	return s, nil
}

func (f *fakeSubscribers) List(_ context.Context, _ models.Page) ([]models.Subscriber, int, error) {
	var out []models.Subscriber
	for _, s := range f.byEmail {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeSubscribers) ListActive(_ context.Context) ([]models.Subscriber, error) {
	var out []models.Subscriber
	for _, s := range f.byEmail {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscribers) Upsert(_ context.Context, s models.Subscriber, _ models.Actor) error {
	if existing, ok := f.byEmail[s.Email]; ok {
		s.ID = existing.ID
	}
	f.byEmail[s.Email] = s
	return nil
}

func (f *fakeSubscribers) SoftDelete(_ context.Context, id string, _ models.Actor) error {
	for email, s := range f.byEmail {
		if s.ID == id {
			delete(f.byEmail, email)
			return nil
		}
	}
	return repository.ErrSubscriberNotFound
}

type fakeObjectStore struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (int64, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return int64(len(data)), nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "http://files.test/bucket/" + key
}
