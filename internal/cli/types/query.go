package types

import (
	"bytes"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/finderai/hadithctl/internal/domain"
)

// ContractVersion identifies the backend payload shape this client maps
const ContractVersion = "hadith-rag/v2"

// QueryRequest is the body of POST /query
type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the structured answer emitted by the backend
type QueryResponse struct {
	MainSummaryEnglish     string           `json:"main_summary_english"`
	HadithDetails          []HadithCitation `json:"hadith_details"`
	FinalConclusionEnglish string           `json:"final_conclusion_english"`
}

// HadithCitation is one entry of hadith_details
type HadithCitation struct {
	ThematicTitle              string     `json:"thematic_title"`
	DetailedExplanationEnglish string     `json:"detailed_explanation_english"`
	OriginalArabicText         string     `json:"original_arabic_text"`
	OriginalEnglishText        string     `json:"original_english_text"`
	HadithNumber               FlexString `json:"hadith_number"`
	BookTitle                  string     `json:"book_title"`
}

// ToDomain maps the wire payload to a StructuredAnswer, keeping citation order
func (r *QueryResponse) ToDomain() *domain.StructuredAnswer {
	answer := &domain.StructuredAnswer{
		Summary:    r.MainSummaryEnglish,
		Conclusion: r.FinalConclusionEnglish,
	}
	if r.HadithDetails == nil {
		return answer
	}

	answer.Citations = make([]domain.Citation, 0, len(r.HadithDetails))
	for _, d := range r.HadithDetails {
		answer.Citations = append(answer.Citations, domain.Citation{
			Title:           d.ThematicTitle,
			Explanation:     d.DetailedExplanationEnglish,
			OriginalText:    d.OriginalArabicText,
			TranslatedText:  d.OriginalEnglishText,
			ReferenceNumber: string(d.HadithNumber),
			SourceTitle:     d.BookTitle,
		})
	}
	return answer
}

// FlexString accepts a JSON string or number; backends disagree on hadith_number
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*f = FlexString(data)
	return nil
}
