package search

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
)

// PaletteDocument is the shape indexed for public palettes.
type PaletteDocument struct {
	ID          uint     `json:"id"`
	UserID      uint     `json:"user_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
	Likes       int      `json:"likes"`
	CreatedAt   int64    `json:"created_at"`
}

type SearchService interface {
	IndexPalette(doc PaletteDocument) error
	DeletePalette(id uint) error
	SearchPalettes(query string, limit int) ([]PaletteDocument, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortableAttrs := []string{"created_at", "likes"}
	if _, err := s.client.Index("palettes").UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update palettes sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

func (s *meiliSearchService) IndexPalette(doc PaletteDocument) error {
	task, err := s.client.Index("palettes").AddDocuments([]PaletteDocument{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed palette %d, task id: %d", doc.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeletePalette(id uint) error {
	_, err := s.client.Index("palettes").DeleteDocument(idString(id))
	return err
}

func (s *meiliSearchService) SearchPalettes(query string, limit int) ([]PaletteDocument, error) {
	resp, err := s.client.Index("palettes").Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	docs := make([]PaletteDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc PaletteDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
