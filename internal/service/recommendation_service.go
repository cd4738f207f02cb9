package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

const similarProductsLimit = 4

type Recommendation struct {
	CategoryRecommendations []models.Product `json:"categoryRecommendations"`
	LLMAdvice               string           `json:"llmAdvice"`
}

type RecommendationService struct {
	catalog *CatalogService
	advisor Advisor
	cache   AdviceCache
}

// NewRecommendationService builds the service. cache may be nil.
func NewRecommendationService(catalog *CatalogService, advisor Advisor, cache AdviceCache) *RecommendationService {
	return &RecommendationService{catalog: catalog, advisor: advisor, cache: cache}
}

// Recommend lists products similar to one the buyer purchased and adds a
// short advice text. Only a missing product is an error.
func (s *RecommendationService) Recommend(ctx context.Context, productID int64) (*Recommendation, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	similar, err := s.catalog.products.List(ctx, repository.ProductFilter{
		Category:  p.Category,
		ExcludeID: p.ID,
		Limit:     similarProductsLimit,
	})
	if err != nil {
		log.Printf("recommendations: similar products for %d: %v", p.ID, err)
		similar = []models.Product{}
	}

	return &Recommendation{
		CategoryRecommendations: similar,
		LLMAdvice:               s.advice(ctx, p, similar),
	}, nil
}

// recommendationPrompt grounds the model on what the store actually has.
func recommendationPrompt(p *models.Product, available []models.Product) string {
	names := make([]string, len(available))
	for i, a := range available {
		names[i] = a.Name
	}
	return fmt.Sprintf(
		"You are a study assistant for a university student. The student just bought a used %q in the %q category. "+
			"Based on these items available in our campus store: [%s], recommend the best 2 items they might need "+
			"for their engineering studies. Keep the answer very short (under 20 words).",
		p.Name, p.Category, strings.Join(names, ", "))
}

func (s *RecommendationService) advice(ctx context.Context, p *models.Product, similar []models.Product) string {
	key := "advice:" + strconv.FormatInt(p.ID, 10)
	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, key); ok {
			return text
		}
	}

	text, ok := s.advisor.Advise(ctx, recommendationPrompt(p, similar))
	if ok && s.cache != nil {
		s.cache.Set(ctx, key, text)
	}
	return text
}
