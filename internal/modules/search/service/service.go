package service

import (
	"fmt"
	"log"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/mirasbazaar/economy/internal/entity"
)

const ledgerIndex = "ledger_entries"

// LedgerSearchService mirrors ledger entries into Meilisearch so admin
// dashboards can filter point history without hitting Postgres. Indexing is
// best-effort: the ledger itself never depends on it.
type LedgerSearchService interface {
	IndexEntry(entry *entity.LedgerEntry) error
	GenerateSearchToken() (string, error)
}

type ledgerSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
}

func NewLedgerSearchService(client meilisearch.ServiceManager) LedgerSearchService {
	s := &ledgerSearchService{client: client}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *ledgerSearchService) initIndexes() {
	filterableAttrs := []string{"user_id", "action_name", "currency"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(ledgerIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update ledger filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "points"}
	_, err = s.client.Index(ledgerIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update ledger sortable attributes: %v", err)
	}

	log.Println("Meilisearch ledger index initialized")
}

func (s *ledgerSearchService) initSigningKey() {
	// 1. Find existing signing key
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "LedgerTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	// 2. Create new key if not found
	expiry := time.Now().AddDate(100, 0, 0)
	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign ledger search tokens",
		Name:        "LedgerTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{ledgerIndex},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

type meiliLedgerDoc struct {
	ID          uint   `json:"id"`
	UserID      string `json:"user_id"`
	ActionName  string `json:"action_name"`
	Points      int    `json:"points"`
	Currency    string `json:"currency"`
	ReferenceID string `json:"reference_id"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *ledgerSearchService) IndexEntry(entry *entity.LedgerEntry) error {
	doc := meiliLedgerDoc{
		ID:          entry.ID,
		UserID:      entry.UserID.String(),
		ActionName:  entry.ActionName,
		Points:      entry.Points,
		Currency:    string(entry.Currency),
		ReferenceID: entry.ReferenceID,
		CreatedAt:   entry.CreatedAt.Unix(),
	}

	_, err := s.client.Index(ledgerIndex).AddDocuments([]meiliLedgerDoc{doc}, strPtr("id"))
	return err
}

func strPtr(s string) *string {
	return &s
}

// GenerateSearchToken issues a read-only tenant token scoped to the ledger
// index, for admin dashboard clients querying Meilisearch directly.
func (s *ledgerSearchService) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		ledgerIndex: map[string]any{"filter": nil},
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate tenant token: %w", err)
	}

	return token, nil
}
