package services

import (
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

// FieldWriter maps an extracted payload onto an applicant's scalar fields.
// Only fields actually present in the payload are written; absent fields
// are never cleared.
type FieldWriter struct{}

func NewFieldWriter() *FieldWriter {
	return &FieldWriter{}
}

// Apply writes the payload's scalar fields through the given store scope
// and returns the columns that changed. Writing nothing is legal.
//
// Name policy: the candidate's own name always lands in partner_name, but
// the display name is only replaced when it is empty or still follows the
// "<candidate>'s Application" convention; a user-entered display name is
// left untouched.
func (w *FieldWriter) Apply(st repositories.Store, applicant *models.Applicant, payload *ExtractedPayload) ([]string, error) {
	if payload == nil {
		log.Printf("⚠️  No data found to write for applicant %s", applicant.ID)
		return nil, nil
	}

	updates := map[string]interface{}{}

	if payload.Name != "" {
		updates["partner_name"] = payload.Name
		if applicant.HasConventionalName() {
			updates["name"] = fmt.Sprintf("%s's Application", payload.Name)
		}
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Linkedin != "" {
		updates["linkedin_profile"] = payload.Linkedin
	}

	if payload.Degree != "" {
		degree, err := w.findOrCreateDegree(st.Taxonomy(), payload.Degree)
		if err != nil {
			return nil, err
		}
		if degree != nil {
			updates["degree_id"] = degree.ID
		}
	}

	if len(updates) == 0 {
		log.Printf("ℹ️  No new simple data to write for applicant %s", applicant.ID)
		return nil, nil
	}

	changed := make([]string, 0, len(updates))
	for column := range updates {
		changed = append(changed, column)
	}
	sort.Strings(changed)

	if err := st.Applicants().UpdateFields(applicant.ID, updates); err != nil {
		return nil, err
	}

	log.Printf("💾 Wrote fields %v for applicant %s", changed, applicant.ID)
	return changed, nil
}

// findOrCreateDegree resolves the degree reference. A failed lookup aborts
// the write, but a failed creation is only logged: a missing degree must
// never block the rest of the simple fields.
func (w *FieldWriter) findOrCreateDegree(taxonomy repositories.TaxonomyRepository, name string) (*models.Degree, error) {
	degree, err := taxonomy.FindDegreeByName(name)
	if err != nil {
		return nil, err
	}
	if degree != nil {
		return degree, nil
	}

	log.Printf("🆕 Creating new degree: %s", name)
	degree = &models.Degree{ID: uuid.New(), Name: name}
	if err := taxonomy.CreateDegree(degree); err != nil {
		log.Printf("❌ Failed to create degree '%s': %v", name, err)
		return nil, nil
	}
	return degree, nil
}
