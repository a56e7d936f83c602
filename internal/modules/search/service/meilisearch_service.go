package service

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"campuscrafter.id/academy/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

const coursesIndex = "courses"

// CourseIndex keeps a full-text copy of the course catalogue.
type CourseIndex interface {
	IndexCourse(course *entity.Course) error
	DeleteCourse(id uint) error
	SearchCourses(query string, limit int64) ([]uint, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, log zerolog.Logger) CourseIndex {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	searchable := []string{"title", "description"}
	if _, err := s.client.Index(coursesIndex).UpdateSearchableAttributes(&searchable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update courses searchable attributes")
	}

	filterable := []any{"teacher_id", "status"}
	if _, err := s.client.Index(coursesIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update courses filterable attributes")
	}

	sortable := []string{"start_date"}
	if _, err := s.client.Index(coursesIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update courses sortable attributes")
	}
}

type meiliCourseDoc struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherID   uint   `json:"teacher_id"`
	Status      string `json:"status"`
	StartDate   int64  `json:"start_date"`
}

func (s *meiliSearchService) IndexCourse(course *entity.Course) error {
	doc := meiliCourseDoc{
		ID:          course.ID,
		Title:       course.Title,
		Description: CleanText(s.sanitizer, deref(course.Description)),
		TeacherID:   course.TeacherID,
		Status:      course.Status,
		StartDate:   course.StartDate.Unix(),
	}

	task, err := s.client.Index(coursesIndex).AddDocuments([]meiliCourseDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index course %d: %w", course.ID, err)
	}
	s.log.Debug().Uint("course_id", course.ID).Int64("task_uid", task.TaskUID).Msg("course indexed")
	return nil
}

func (s *meiliSearchService) DeleteCourse(id uint) error {
	_, err := s.client.Index(coursesIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

type rawHits struct {
	Hits []struct {
		ID uint `json:"id"`
	} `json:"hits"`
}

// SearchCourses returns matching course ids in relevance order.
func (s *meiliSearchService) SearchCourses(query string, limit int64) ([]uint, error) {
	raw, err := s.client.Index(coursesIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                limit,
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	var res rawHits
	if err := json.Unmarshal(*raw, &res); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// CleanText strips markup so descriptions index as plain words.
func CleanText(p *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	clean := html.UnescapeString(p.Sanitize(content))
	return strings.Join(strings.Fields(clean), " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
