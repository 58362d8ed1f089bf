package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	descriptionSystemPrompt = "Du bist ein Assistent, der ansprechende Produktbeschreibungen für eine Kleinanzeigen-App schreibt. Schreibe kurz und ansprechend auf Deutsch."
	priceSystemPrompt       = "Du bist ein Experte für die Bewertung von gebrauchten und neuen Produkten. Gib eine Preisschätzung basierend auf Produktinformationen und Marktbedingungen."
)

type DescriptionInput struct {
	Title          string
	Category       string
	CategoryFields map[string]interface{}
}

type PriceInput struct {
	Title          string
	Category       string
	Condition      string
	CategoryFields map[string]interface{}
}

func fieldsText(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return "{}"
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func descriptionPrompt(in DescriptionInput) string {
	return fmt.Sprintf("%s\n\nSchreibe eine ansprechende Beschreibung für ein Produkt mit dem Titel: %s\nKategorie: %s\nDetails: %s\n\nSchreibe eine kurze Beschreibung (3-4 Sätze) auf Deutsch.",
		descriptionSystemPrompt, in.Title, in.Category, fieldsText(in.CategoryFields))
}

func pricePrompt(in PriceInput) string {
	condition := in.Condition
	if condition == "" {
		condition = "Nicht angegeben"
	}
	return fmt.Sprintf("%s\n\nWas ist ein angemessener Preis für ein Produkt mit folgenden Eigenschaften:\nTitel: %s\nKategorie: %s\nZustand: %s\nDetails: %s\n\nGib eine ungefähre Preisspanne in Euro. Gib eine kurze Antwort (eine Zeile) wie: 'Angemessener Preis: €500-700'",
		priceSystemPrompt, in.Title, in.Category, condition, fieldsText(in.CategoryFields))
}

// generate 失敗時は原因をログに残し、汎用メッセージのエラーを返す
func (s *Service) generate(ctx context.Context, prompt, failure string) (string, error) {
	if s.ai == nil {
		return "", internal(failure, fmt.Errorf("text generator is not configured"))
	}
	text, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		s.log.Error("ai generation failed", zap.Error(err))
		return "", internal(failure, err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateDescription 出品説明文の自動生成
func (s *Service) GenerateDescription(ctx context.Context, in DescriptionInput) (string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", Validation("Titel ist erforderlich")
	}
	return s.generate(ctx, descriptionPrompt(in), msgDescriptionFailed)
}

// SuggestPrice 価格の提案
func (s *Service) SuggestPrice(ctx context.Context, in PriceInput) (string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", Validation("Titel ist erforderlich")
	}
	return s.generate(ctx, pricePrompt(in), msgPriceFailed)
}
