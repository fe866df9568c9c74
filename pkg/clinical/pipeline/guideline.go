package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"healthmesh-be/pkg/retrieval"
)

// GuidelineCitation is one applicable guideline recommendation.
type GuidelineCitation struct {
	Organization     string `json:"organization"`
	Recommendation   string `json:"recommendation"`
	EvidenceStrength string `json:"evidence_strength"`
}

// GuidelineDetails is the structured output of the guideline stage.
type GuidelineDetails struct {
	Stage      StageKey            `json:"stage"`
	Citations  []GuidelineCitation `json:"citations"`
	Deviations []string            `json:"deviations"`
	GrayAreas  []string            `json:"gray_areas"`
	Confidence int                 `json:"confidence"`
	Reasoning  []string            `json:"reasoning"`
}

func (d *GuidelineDetails) DetailsStage() StageKey { return StageGuideline }

// GuidelineStage maps the working differential onto published guidance,
// optionally augmented with reference material from the retrieval
// collaborator. Without a retriever the stage still runs, it just cites
// from model knowledge alone.
type GuidelineStage struct {
	retriever retrieval.Retriever
	logger    *log.Logger
}

func NewGuidelineStage(retriever retrieval.Retriever, logger *log.Logger) *GuidelineStage {
	return &GuidelineStage{
		retriever: retriever,
		logger:    logger,
	}
}

func (s *GuidelineStage) Key() StageKey { return StageGuideline }

func (s *GuidelineStage) Instruction() string {
	return "You are a clinical guideline specialist supporting a licensed clinician. " +
		"You map a working differential onto published guideline recommendations, " +
		"naming the issuing organization and the strength of evidence for each. " +
		"Flag deviations and gray areas explicitly. " +
		"Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *GuidelineStage) BuildPrompt(ctx context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	writeSection(&b, "diagnostic_assessment", upstreamOrNotice(pc, StageDiagnostic))

	var sources []string
	if ref, refSources := s.lookupReferences(ctx, pc); ref != "" {
		writeSection(&b, "reference_material",
			"Guideline excerpts retrieved for this case. Prefer these over general recall when they apply:",
			ref)
		sources = refSources
	}

	writeSection(&b, "task",
		"List the guideline recommendations applicable to this case, one citation per recommendation.",
		"For each citation name the issuing organization and the evidence strength.",
		"Separately note where this case deviates from guidance and where guidance is silent or ambiguous.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "citations": [`,
		`    {"organization": "...", "recommendation": "...", "evidence_strength": "..."}`,
		"  ],",
		`  "deviations": ["..."],`,
		`  "gray_areas": ["..."],`,
		`  "confidence": 70,`,
		`  "reasoning": ["..."]`,
		"}")

	return b.String(), sources
}

// lookupReferences queries the retrieval collaborator for material keyed on
// the clinical question plus the top differentials. Absence or failure of
// the retriever only omits the citation boost.
func (s *GuidelineStage) lookupReferences(ctx context.Context, pc *PipelineContext) (string, []string) {
	if s.retriever == nil {
		return "", nil
	}

	query := pc.ClinicalQuestion
	if dd, ok := pc.CompletedDetails(StageDiagnostic).(*DiagnosticDetails); ok {
		for i, diff := range dd.Differentials {
			if i >= 3 {
				break
			}
			query += " " + diff.Condition
		}
	}

	res, err := s.retriever.Retrieve(ctx, query, retrieval.DefaultOptions())
	if err != nil {
		s.logger.Printf("[STAGE:%s] retrieval unavailable, continuing without references: %v", s.Key(), err)
		return "", nil
	}
	if res == nil || res.Answer == "" {
		return "", nil
	}

	sources := make([]string, 0, len(res.Sources))
	for _, src := range res.Sources {
		sources = append(sources, src.Title)
	}
	return res.Answer, sources
}

func (s *GuidelineStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d GuidelineDetails
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageGuideline

	summary := fmt.Sprintf("Guideline: %d citation(s), %d deviation(s), %d gray area(s)",
		len(d.Citations), len(d.Deviations), len(d.GrayAreas))

	return &ParsedStage{
		Details:    &d,
		Summary:    summary,
		Confidence: clampConfidence(d.Confidence),
		Reasoning:  d.Reasoning,
	}, nil
}
