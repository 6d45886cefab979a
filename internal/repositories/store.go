package repositories

import (
	"gorm.io/gorm"
)

// Store bundles the repositories behind a single handle so services can run
// several of them inside one transactional scope. Transaction opens a scoped
// unit of work: the callback receives a Store bound to the transaction, and
// every write either commits as one on return or rolls back as one on error.
//
// One extraction job runs its core step and its skills step as two sibling
// Transaction calls, which is what keeps their failure domains independent.
// Error-state writes go through the base (non-transactional) Store so a
// failed unit can never roll its own diagnostic back.
type Store interface {
	Applicants() ApplicantRepository
	Companies() CompanyRepository
	Attachments() AttachmentRepository
	Taxonomy() TaxonomyRepository
	Jobs() JobRepository
	Transaction(fn func(Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Applicants() ApplicantRepository {
	return &applicantRepository{db: s.db}
}

func (s *gormStore) Companies() CompanyRepository {
	return &companyRepository{db: s.db}
}

func (s *gormStore) Attachments() AttachmentRepository {
	return &attachmentRepository{db: s.db}
}

func (s *gormStore) Taxonomy() TaxonomyRepository {
	return &taxonomyRepository{db: s.db}
}

func (s *gormStore) Jobs() JobRepository {
	return &jobRepository{db: s.db}
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
