package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

// memStore is an in-memory repositories.Store. Transaction runs the
// callback against a deep copy of the data and only swaps it in on
// success, so rollback isolation in the two-step extraction flow is
// exercised for real.
type memStore struct {
	mu   sync.Mutex
	data *memData

	failCreateDegree error
	failCreateType   error
	failCreateLevel  error
	failCreateSkill  error
	failCreateLink   error
	failUpdateFields error
}

type memData struct {
	applicants  map[uuid.UUID]*models.Applicant
	companies   map[uuid.UUID]*models.Company
	attachments map[uuid.UUID]*models.Attachment
	jobs        map[uuid.UUID]*models.Job
	degrees     map[uuid.UUID]*models.Degree
	skillTypes  map[uuid.UUID]*models.SkillType
	skillLevels map[uuid.UUID]*models.SkillLevel
	skills      map[uuid.UUID]*models.Skill
	links       map[uuid.UUID]*models.ApplicantSkill
	typeLevels  map[uuid.UUID]map[uuid.UUID]bool
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		applicants:  map[uuid.UUID]*models.Applicant{},
		companies:   map[uuid.UUID]*models.Company{},
		attachments: map[uuid.UUID]*models.Attachment{},
		jobs:        map[uuid.UUID]*models.Job{},
		degrees:     map[uuid.UUID]*models.Degree{},
		skillTypes:  map[uuid.UUID]*models.SkillType{},
		skillLevels: map[uuid.UUID]*models.SkillLevel{},
		skills:      map[uuid.UUID]*models.Skill{},
		links:       map[uuid.UUID]*models.ApplicantSkill{},
		typeLevels:  map[uuid.UUID]map[uuid.UUID]bool{},
	}}
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (d *memData) clone() *memData {
	typeLevels := make(map[uuid.UUID]map[uuid.UUID]bool, len(d.typeLevels))
	for typeID, levels := range d.typeLevels {
		inner := make(map[uuid.UUID]bool, len(levels))
		for levelID := range levels {
			inner[levelID] = true
		}
		typeLevels[typeID] = inner
	}
	return &memData{
		applicants:  cloneMap(d.applicants),
		companies:   cloneMap(d.companies),
		attachments: cloneMap(d.attachments),
		jobs:        cloneMap(d.jobs),
		degrees:     cloneMap(d.degrees),
		skillTypes:  cloneMap(d.skillTypes),
		skillLevels: cloneMap(d.skillLevels),
		skills:      cloneMap(d.skills),
		links:       cloneMap(d.links),
		typeLevels:  typeLevels,
	}
}

func (s *memStore) Applicants() repositories.ApplicantRepository  { return &memApplicants{s} }
func (s *memStore) Companies() repositories.CompanyRepository     { return &memCompanies{s} }
func (s *memStore) Attachments() repositories.AttachmentRepository { return &memAttachments{s} }
func (s *memStore) Taxonomy() repositories.TaxonomyRepository     { return &memTaxonomy{s} }
func (s *memStore) Jobs() repositories.JobRepository              { return &memJobs{s} }

func (s *memStore) Transaction(fn func(repositories.Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := &memStore{
		data:             snapshot,
		failCreateDegree: s.failCreateDegree,
		failCreateType:   s.failCreateType,
		failCreateLevel:  s.failCreateLevel,
		failCreateSkill:  s.failCreateSkill,
		failCreateLink:   s.failCreateLink,
		failUpdateFields: s.failUpdateFields,
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

// Seeding and assertion helpers.

func (s *memStore) addCompany(c *models.Company) *models.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.data.companies[c.ID] = c
	return c
}

func (s *memStore) addApplicant(a *models.Applicant) *models.Applicant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.data.applicants[a.ID] = a
	return a
}

func (s *memStore) addAttachment(a *models.Attachment) *models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.data.attachments[a.ID] = a
	return a
}

func (s *memStore) addJob(j *models.Job) *models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	s.data.jobs[j.ID] = j
	return j
}

func (s *memStore) addSkillLevel(l *models.SkillLevel) *models.SkillLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	s.data.skillLevels[l.ID] = l
	return l
}

func (s *memStore) addSkillType(t *models.SkillType) *models.SkillType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	s.data.skillTypes[t.ID] = t
	return t
}

func (s *memStore) addSkill(sk *models.Skill) *models.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sk.ID == uuid.Nil {
		sk.ID = uuid.New()
	}
	s.data.skills[sk.ID] = sk
	return sk
}

func (s *memStore) applicant(id uuid.UUID) *models.Applicant {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *s.data.applicants[id]
	return &a
}

func (s *memStore) linksFor(applicantID uuid.UUID) []*models.ApplicantSkill {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ApplicantSkill
	for _, link := range s.data.links {
		if link.ApplicantID == applicantID {
			c := *link
			out = append(out, &c)
		}
	}
	return out
}

func (s *memStore) applicantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.applicants)
}

type memApplicants struct{ s *memStore }

func (r *memApplicants) Create(a *models.Applicant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.data.applicants[a.ID] = &c
	return nil
}

func (r *memApplicants) FindByID(id uuid.UUID) (*models.Applicant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.applicants[id]
	if !ok {
		return nil, errNotFound("applicant")
	}
	c := *a
	return &c, nil
}

func (r *memApplicants) FindByIDs(ids []uuid.UUID) ([]models.Applicant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Applicant
	for _, id := range ids {
		if a, ok := r.s.data.applicants[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApplicants) FindByNameAndEmail(name, email string) (*models.Applicant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.applicants {
		if a.PartnerName == name && a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memApplicants) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if r.s.failUpdateFields != nil {
		return r.s.failUpdateFields
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.applicants[id]
	if !ok {
		return errNotFound("applicant")
	}
	for column, value := range fields {
		switch column {
		case "name":
			a.Name = value.(string)
		case "partner_name":
			a.PartnerName = value.(string)
		case "email":
			a.Email = value.(string)
		case "phone":
			a.Phone = value.(string)
		case "linkedin_profile":
			a.LinkedinProfile = value.(string)
		case "degree_id":
			id := value.(uuid.UUID)
			a.DegreeID = &id
		case "cv_attachment_id":
			id := value.(uuid.UUID)
			a.CVAttachmentID = &id
		}
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (r *memApplicants) UpdateExtractState(id uuid.UUID, state models.ExtractState, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.applicants[id]
	if !ok {
		return errNotFound("applicant")
	}
	a.ExtractState = state
	a.ExtractStatus = status
	a.UpdatedAt = time.Now()
	return nil
}

type memCompanies struct{ s *memStore }

func (r *memCompanies) Create(c *models.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cc := *c
	r.s.data.companies[c.ID] = &cc
	return nil
}

func (r *memCompanies) FindByID(id uuid.UUID) (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.companies[id]
	if !ok {
		return nil, errNotFound("company")
	}
	cc := *c
	return &cc, nil
}

func (r *memCompanies) First() (*models.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.companies {
		cc := *c
		return &cc, nil
	}
	return nil, nil
}

type memAttachments struct{ s *memStore }

func (r *memAttachments) Create(a *models.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *a
	r.s.data.attachments[a.ID] = &c
	return nil
}

func (r *memAttachments) FindByID(id uuid.UUID) (*models.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.attachments[id]
	if !ok {
		return nil, errNotFound("attachment")
	}
	c := *a
	return &c, nil
}

func (r *memAttachments) AssignToApplicant(attachmentID, applicantID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.attachments[attachmentID]
	if !ok {
		return errNotFound("attachment")
	}
	a.ApplicantID = &applicantID
	return nil
}

type memJobs struct{ s *memStore }

func (r *memJobs) Create(j *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *j
	r.s.data.jobs[j.ID] = &c
	return nil
}

func (r *memJobs) FindByID(id uuid.UUID) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.data.jobs[id]
	if !ok {
		return nil, errNotFound("job")
	}
	c := *j
	return &c, nil
}

func (r *memJobs) AddTag(jobID uuid.UUID, tag *models.JobTag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.data.jobs[jobID]
	if !ok {
		return errNotFound("job")
	}
	j.Tags = append(j.Tags, *tag)
	return nil
}

type memTaxonomy struct{ s *memStore }

func (r *memTaxonomy) FindDegreeByName(name string) (*models.Degree, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.data.degrees {
		if strings.EqualFold(d.Name, name) {
			c := *d
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) CreateDegree(d *models.Degree) error {
	if r.s.failCreateDegree != nil {
		return r.s.failCreateDegree
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *d
	r.s.data.degrees[d.ID] = &c
	return nil
}

func (r *memTaxonomy) FindSkillTypeByName(name string) (*models.SkillType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.skillTypes {
		if strings.EqualFold(t.Name, name) {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) CreateSkillType(t *models.SkillType) error {
	if r.s.failCreateType != nil {
		return r.s.failCreateType
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *t
	r.s.data.skillTypes[t.ID] = &c
	return nil
}

func (r *memTaxonomy) FindSkillLevel(name string, progress int) (*models.SkillLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.data.skillLevels {
		if strings.EqualFold(l.Name, name) && l.Progress == progress {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) FindSkillLevelByName(name string) (*models.SkillLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.data.skillLevels {
		if strings.EqualFold(l.Name, name) {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) FindLowestPositiveSkillLevel() (*models.SkillLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var lowest *models.SkillLevel
	for _, l := range r.s.data.skillLevels {
		if l.Progress <= 0 {
			continue
		}
		if lowest == nil || l.Progress < lowest.Progress {
			lowest = l
		}
	}
	if lowest == nil {
		return nil, nil
	}
	c := *lowest
	return &c, nil
}

func (r *memTaxonomy) CreateSkillLevel(l *models.SkillLevel) error {
	if r.s.failCreateLevel != nil {
		return r.s.failCreateLevel
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *l
	r.s.data.skillLevels[l.ID] = &c
	return nil
}

func (r *memTaxonomy) TypeHasLevel(typeID, levelID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.data.typeLevels[typeID][levelID], nil
}

func (r *memTaxonomy) AddLevelToType(typeID, levelID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.data.typeLevels[typeID] == nil {
		r.s.data.typeLevels[typeID] = map[uuid.UUID]bool{}
	}
	r.s.data.typeLevels[typeID][levelID] = true
	return nil
}

func (r *memTaxonomy) FindSkillByName(name string) (*models.Skill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sk := range r.s.data.skills {
		if strings.EqualFold(sk.Name, name) {
			c := *sk
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) CreateSkill(sk *models.Skill) error {
	if r.s.failCreateSkill != nil {
		return r.s.failCreateSkill
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *sk
	r.s.data.skills[sk.ID] = &c
	return nil
}

func (r *memTaxonomy) UpdateSkillType(skillID, typeID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sk, ok := r.s.data.skills[skillID]
	if !ok {
		return errNotFound("skill")
	}
	sk.SkillTypeID = typeID
	return nil
}

func (r *memTaxonomy) FindApplicantSkill(applicantID, skillID uuid.UUID) (*models.ApplicantSkill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, link := range r.s.data.links {
		if link.ApplicantID == applicantID && link.SkillID == skillID {
			c := *link
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTaxonomy) CreateApplicantSkill(link *models.ApplicantSkill) error {
	if r.s.failCreateLink != nil {
		return r.s.failCreateLink
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *link
	r.s.data.links[link.ID] = &c
	return nil
}

func (r *memTaxonomy) ListApplicantSkills(applicantID uuid.UUID) ([]models.ApplicantSkill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ApplicantSkill
	for _, link := range r.s.data.links {
		if link.ApplicantID == applicantID {
			out = append(out, *link)
		}
	}
	return out, nil
}

type notFoundError string

func (e notFoundError) Error() string { return string(e) + " not found" }

func errNotFound(what string) error { return notFoundError(what) }

// stubProvider is a canned ExtractionProvider in the spirit of the stub
// generators used for matcher tests elsewhere.
type stubProvider struct {
	mu        sync.Mutex
	response  string
	responses []string
	err       error
	panicMsg  string
	block     chan struct{}
	calls     int
	lastReq   ExtractionRequest
}

func (p *stubProvider) Extract(_ context.Context, req ExtractionRequest) (string, error) {
	p.mu.Lock()
	p.calls++
	p.lastReq = req
	var response string
	if len(p.responses) > 0 {
		response = p.responses[0]
		p.responses = p.responses[1:]
	} else {
		response = p.response
	}
	p.mu.Unlock()

	if p.block != nil {
		<-p.block
	}
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	if p.err != nil {
		return "", p.err
	}
	return response, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// stubSource serves canned document bytes for any attachment.
type stubSource struct {
	data []byte
	err  error
}

func (s *stubSource) Fetch(_ *models.Attachment) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, "application/pdf", nil
}

// recordingNotifier captures batch events.
type recordingNotifier struct {
	mu        sync.Mutex
	started   []int
	completed [][2]int
}

func (n *recordingNotifier) BatchStarted(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, count)
}

func (n *recordingNotifier) BatchCompleted(processed, failed int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, [2]int{processed, failed})
}
