package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

// Composite level labels look like "Advanced (80%)". Anchored at the start
// only; trailing text after the percentage is tolerated.
var skillLevelPattern = regexp.MustCompile(`^(.+?)\s*\((\d+)%\)`)

const (
	defaultSkillTypeName = "General"
	defaultLevelName     = "Beginner"
	defaultLevelProgress = 15
)

// Reconciler maps the free-text skill labels from one extraction onto the
// reference taxonomy, creating entities only when no case-insensitive match
// exists. One instance serves exactly one job: the caches are keyed by
// lower-cased label and live only as long as the instance.
type Reconciler struct {
	taxonomy repositories.TaxonomyRepository

	typeCache  map[string]*models.SkillType
	levelCache map[string]*models.SkillLevel
	skillCache map[string]*models.Skill

	// Resolved at most once per job.
	defaultLevel *models.SkillLevel
}

func NewReconciler(taxonomy repositories.TaxonomyRepository) *Reconciler {
	return &Reconciler{
		taxonomy:   taxonomy,
		typeCache:  map[string]*models.SkillType{},
		levelCache: map[string]*models.SkillLevel{},
		skillCache: map[string]*models.Skill{},
	}
}

// ProcessSkills reconciles every entry and links it to the applicant.
// Entries without a skill name are skipped; any other failure aborts the
// whole batch so the caller can roll the skills step back as one unit.
func (r *Reconciler) ProcessSkills(applicantID uuid.UUID, entries []SkillEntry) error {
	for _, entry := range entries {
		if strings.TrimSpace(entry.Skill) == "" {
			log.Printf("⚠️  Skipping skill entry with no name: %+v", entry)
			continue
		}
		if err := r.processEntry(applicantID, entry); err != nil {
			return &ReconciliationError{
				Err: fmt.Errorf("failed to process skill '%s': %w", entry.Skill, err),
			}
		}
	}
	return nil
}

func (r *Reconciler) processEntry(applicantID uuid.UUID, entry SkillEntry) error {
	skillType, err := r.resolveSkillType(entry.Type)
	if err != nil {
		return err
	}

	level, err := r.resolveSkillLevel(entry.Level)
	if err != nil {
		return err
	}

	if err := r.ensureTypeHasLevel(skillType, level); err != nil {
		return err
	}

	skill, err := r.resolveSkill(entry.Skill, skillType)
	if err != nil {
		return err
	}

	return r.linkSkill(applicantID, skill, level, skillType)
}

// resolveSkillType finds or creates the skill type, defaulting to "General"
// when the payload omits one.
func (r *Reconciler) resolveSkillType(name string) (*models.SkillType, error) {
	if strings.TrimSpace(name) == "" {
		name = defaultSkillTypeName
	}

	key := strings.ToLower(name)
	if cached, ok := r.typeCache[key]; ok {
		return cached, nil
	}

	skillType, err := r.taxonomy.FindSkillTypeByName(name)
	if err != nil {
		return nil, err
	}
	if skillType == nil {
		skillType = &models.SkillType{ID: uuid.New(), Name: name}
		if err := r.taxonomy.CreateSkillType(skillType); err != nil {
			return nil, err
		}
	}

	r.typeCache[key] = skillType
	return skillType, nil
}

// resolveSkillLevel turns a composite label into a level record. Lookup
// order: (name, progress) pair from the parsed label, then the full label
// by name alone, then a new level from the parsed parts. Unparseable or
// unresolvable labels fall back to the shared default level, so the result
// is never nil.
func (r *Reconciler) resolveSkillLevel(label string) (*models.SkillLevel, error) {
	if strings.TrimSpace(label) == "" {
		return r.resolveDefaultLevel()
	}

	key := strings.ToLower(label)
	if cached, ok := r.levelCache[key]; ok {
		return cached, nil
	}

	var level *models.SkillLevel
	var err error

	match := skillLevelPattern.FindStringSubmatch(label)
	if match != nil {
		name := strings.TrimSpace(match[1])
		progress, _ := strconv.Atoi(match[2])

		level, err = r.taxonomy.FindSkillLevel(name, progress)
		if err != nil {
			return nil, err
		}

		if level == nil {
			level, err = r.taxonomy.FindSkillLevelByName(label)
			if err != nil {
				return nil, err
			}
		}

		if level == nil {
			level = &models.SkillLevel{ID: uuid.New(), Name: name, Progress: progress}
			if err := r.taxonomy.CreateSkillLevel(level); err != nil {
				return nil, err
			}
		}
	} else {
		level, err = r.taxonomy.FindSkillLevelByName(label)
		if err != nil {
			return nil, err
		}
	}

	if level == nil {
		return r.resolveDefaultLevel()
	}

	r.levelCache[key] = level
	return level, nil
}

// resolveDefaultLevel resolves the shared fallback level once per job:
// exact "Beginner"/15, then any "Beginner", then the lowest level with
// positive progress, then a freshly created "Beginner"/15.
func (r *Reconciler) resolveDefaultLevel() (*models.SkillLevel, error) {
	if r.defaultLevel != nil {
		return r.defaultLevel, nil
	}

	level, err := r.taxonomy.FindSkillLevel(defaultLevelName, defaultLevelProgress)
	if err != nil {
		return nil, err
	}

	if level == nil {
		level, err = r.taxonomy.FindSkillLevelByName(defaultLevelName)
		if err != nil {
			return nil, err
		}
	}

	if level == nil {
		level, err = r.taxonomy.FindLowestPositiveSkillLevel()
		if err != nil {
			return nil, err
		}
	}

	if level == nil {
		log.Printf("⚠️  No '%s (%d%%)' skill level found. Creating a new one.", defaultLevelName, defaultLevelProgress)
		level = &models.SkillLevel{ID: uuid.New(), Name: defaultLevelName, Progress: defaultLevelProgress}
		if err := r.taxonomy.CreateSkillLevel(level); err != nil {
			return nil, fmt.Errorf("could not create default '%s (%d%%)' skill level: %w",
				defaultLevelName, defaultLevelProgress, err)
		}
	}

	r.defaultLevel = level
	return level, nil
}

// ensureTypeHasLevel adds the level to the type's allowed-level set when it
// is missing. Additive and idempotent; nothing is ever removed.
func (r *Reconciler) ensureTypeHasLevel(skillType *models.SkillType, level *models.SkillLevel) error {
	has, err := r.taxonomy.TypeHasLevel(skillType.ID, level.ID)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return r.taxonomy.AddLevelToType(skillType.ID, level.ID)
}

// resolveSkill finds or creates the skill. An existing skill whose type
// differs from the resolved one is corrected in place; the latest
// extraction is authoritative for type assignment.
func (r *Reconciler) resolveSkill(name string, skillType *models.SkillType) (*models.Skill, error) {
	key := strings.ToLower(name)
	if cached, ok := r.skillCache[key]; ok {
		return cached, nil
	}

	skill, err := r.taxonomy.FindSkillByName(name)
	if err != nil {
		return nil, err
	}
	if skill == nil {
		skill = &models.Skill{ID: uuid.New(), Name: name, SkillTypeID: skillType.ID}
		if err := r.taxonomy.CreateSkill(skill); err != nil {
			return nil, err
		}
	} else if skill.SkillTypeID != skillType.ID {
		if err := r.taxonomy.UpdateSkillType(skill.ID, skillType.ID); err != nil {
			return nil, err
		}
		skill.SkillTypeID = skillType.ID
	}

	r.skillCache[key] = skill
	return skill, nil
}

// linkSkill creates the applicant-skill link unless one already exists for
// this (applicant, skill) pair.
func (r *Reconciler) linkSkill(applicantID uuid.UUID, skill *models.Skill, level *models.SkillLevel, skillType *models.SkillType) error {
	existing, err := r.taxonomy.FindApplicantSkill(applicantID, skill.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	link := &models.ApplicantSkill{
		ID:           uuid.New(),
		ApplicantID:  applicantID,
		SkillID:      skill.ID,
		SkillLevelID: level.ID,
		SkillTypeID:  skillType.ID,
	}
	if err := r.taxonomy.CreateApplicantSkill(link); err != nil {
		return err
	}

	log.Printf("🔗 Linked skill '%s' (type: %s, level: %s) to applicant %s",
		skill.Name, skillType.Name, level.Name, applicantID)
	return nil
}
