package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type fakeProfiles struct {
	mu    sync.Mutex
	order []string
	rows  map[string]models.Profile
	err   error
}

func newFakeProfiles(ps ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{rows: map[string]models.Profile{}}
	for _, p := range ps {
		f.put(p)
	}
	return f
}

func (f *fakeProfiles) put(p models.Profile) {
	if _, ok := f.rows[p.ID]; !ok {
		f.order = append(f.order, p.ID)
	}
	f.rows[p.ID] = p
}

func (f *fakeProfiles) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		if p := f.rows[id]; p.UserID == userID {
			return &p, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeProfiles) Upsert(ctx context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		if cur := f.rows[id]; cur.UserID == p.UserID {
			cur.Name, cur.Department, cur.Year, cur.Bio, cur.UpdatedAt = p.Name, p.Department, p.Year, p.Bio, p.UpdatedAt
			f.rows[id] = cur
			return nil
		}
	}
	f.put(*p)
	return nil
}

func (f *fakeProfiles) list(keep func(models.Profile) bool) []models.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Profile
	for _, id := range f.order {
		if p := f.rows[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProfiles) ListSeniors(ctx context.Context, year int) ([]models.Profile, error) {
	return f.list(func(p models.Profile) bool { return p.Year > year }), nil
}

func (f *fakeProfiles) ListAll(ctx context.Context) ([]models.Profile, error) {
	return f.list(func(models.Profile) bool { return true }), nil
}

func (f *fakeProfiles) ListByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return f.list(func(p models.Profile) bool { return want[p.ID] }), nil
}

func (f *fakeProfiles) SetResumeURL(ctx context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	p.ResumeURL = &url
	f.rows[id] = p
	return nil
}

type fakeSkills struct {
	mu       sync.Mutex
	rows     map[string][]models.Skill
	replaced int
	err      error
}

func newFakeSkills() *fakeSkills { return &fakeSkills{rows: map[string][]models.Skill{}} }

// add stores one skill per name, all with the same vector.
func (f *fakeSkills) add(profileID string, vec []float32, names ...string) {
	for _, n := range names {
		f.rows[profileID] = append(f.rows[profileID], models.Skill{
			ID:        profileID + ":" + n,
			ProfileID: profileID,
			SkillName: n,
			Embedding: pgvector.NewVector(vec),
		})
	}
}

func (f *fakeSkills) ListByProfile(ctx context.Context, profileID string) ([]models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Skill(nil), f.rows[profileID]...), nil
}

func (f *fakeSkills) ReplaceForProfile(ctx context.Context, profileID string, skills []models.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced++
	f.rows[profileID] = append([]models.Skill(nil), skills...)
	return nil
}

type fakeMentorships struct {
	mu   sync.Mutex
	rows []models.Mentorship
}

func (f *fakeMentorships) Insert(ctx context.Context, m *models.Mentorship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.MentorID == m.MentorID && r.MenteeID == m.MenteeID {
			return utils.ErrConflict
		}
	}
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMentorships) ListByMentee(ctx context.Context, menteeID string) ([]models.Mentorship, error) {
	var out []models.Mentorship
	for _, r := range f.rows {
		if r.MenteeID == menteeID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTeams struct {
	teams   []models.Team
	members map[string][]models.TeamMember
	err     error
}

func (f *fakeTeams) CreateWithMembers(ctx context.Context, t *models.Team, members []models.TeamMember) error {
	if f.err != nil {
		return f.err
	}
	if f.members == nil {
		f.members = map[string][]models.TeamMember{}
	}
	f.teams = append(f.teams, *t)
	f.members[t.ID] = members
	return nil
}

func (f *fakeTeams) GetByID(ctx context.Context, id string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeTeams) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	return f.members[teamID], nil
}

type fakeDoubts struct {
	mu   sync.Mutex
	rows map[string]models.Doubt
}

func newFakeDoubts() *fakeDoubts { return &fakeDoubts{rows: map[string]models.Doubt{}} }

func (f *fakeDoubts) Create(ctx context.Context, d *models.Doubt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[d.ID] = *d
	return nil
}

func (f *fakeDoubts) GetByID(ctx context.Context, id string) (*models.Doubt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &d, nil
}

func (f *fakeDoubts) SaveAnswer(ctx context.Context, id, answer string, mentors datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	d.AIResponse = &answer
	d.SuggestedMentors = mentors
	d.Status = models.DoubtAnswered
	f.rows[id] = d
	return nil
}

type fakeJobs struct {
	mu   sync.Mutex
	rows map[string]models.DoubtJob
}

func newFakeJobs() *fakeJobs { return &fakeJobs{rows: map[string]models.DoubtJob{}} }

func (f *fakeJobs) Create(ctx context.Context, j *models.DoubtJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.CreatedAt = time.Now().UTC()
	f.rows[j.JobID] = *j
	return nil
}

func (f *fakeJobs) GetByJobID(ctx context.Context, jobID string) (*models.DoubtJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[jobID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &j, nil
}

func (f *fakeJobs) LatestByDoubt(ctx context.Context, doubtID string) (*models.DoubtJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.rows {
		if j.DoubtID == doubtID {
			return &j, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeJobs) SetStatus(ctx context.Context, jobID, status, errMsg string, processingMS int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.rows[jobID]
	if !ok {
		return utils.ErrNotFound
	}
	j.Status, j.Error, j.ProcessingTimeMS = status, errMsg, processingMS
	f.rows[jobID] = j
	return nil
}

type fakeQueue struct {
	jobs []string
	err  error
}

func (q *fakeQueue) Enqueue(ctx context.Context, jobID, doubtID string) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, jobID+"|"+doubtID)
	return nil
}

// fakeEmbedder returns vecs[text] (or fallback) and counts calls.
type fakeEmbedder struct {
	calls    atomic.Int32
	vecs     map[string][]float32
	fallback []float32
	err      error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

type fakeCompleter struct {
	calls  int
	system string
	answer string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	f.calls++
	f.system = systemPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeUploader struct {
	name  string
	ctype string
	n     int64
	url   string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}
	f.name, f.ctype, f.n = objectName, contentType, n
	return f.url, nil
}

type fakeSigner struct{ object string }

func (f *fakeSigner) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	f.object = objectName
	return "https://signed.example/" + objectName, nil
}

var errProvider = errors.New("provider http 500")

func profile(id string, year int) models.Profile {
	return models.Profile{ID: id, UserID: "u-" + id, Name: "Student " + id, Department: "CS", Year: year}
}
