package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"healthmesh-be/pkg/retrieval"
)

// Study is one supporting study cited by the evidence stage.
type Study struct {
	Title     string `json:"title"`
	Type      string `json:"type"` // RCT, meta-analysis, cohort, case series...
	Year      int    `json:"year"`
	Relevance string `json:"relevance"`
}

// EvidenceDetails is the structured output of the evidence stage.
type EvidenceDetails struct {
	Stage       StageKey `json:"stage"`
	Studies     []Study  `json:"key_studies"`
	Strength    string   `json:"evidence_strength"` // Strong, Moderate, Weak
	Limitations []string `json:"limitations"`
	Confidence  int      `json:"confidence"`
	Reasoning   []string `json:"reasoning"`
}

func (d *EvidenceDetails) DetailsStage() StageKey { return StageEvidence }

// EvidenceStage appraises the literature behind the working differential and
// the guideline recommendations. Shares the retrieval collaborator with the
// guideline stage.
type EvidenceStage struct {
	retriever retrieval.Retriever
	logger    *log.Logger
}

func NewEvidenceStage(retriever retrieval.Retriever, logger *log.Logger) *EvidenceStage {
	return &EvidenceStage{
		retriever: retriever,
		logger:    logger,
	}
}

func (s *EvidenceStage) Key() StageKey { return StageEvidence }

func (s *EvidenceStage) Instruction() string {
	return "You are an evidence appraisal specialist supporting a licensed clinician. " +
		"You identify the key studies behind a working differential and its guideline recommendations, " +
		"classify the overall strength of that evidence and state its limitations honestly. " +
		"Your output is advisory and will be reviewed by a professional. " +
		"Respond with ONLY valid JSON matching the requested shape."
}

func (s *EvidenceStage) BuildPrompt(ctx context.Context, pc *PipelineContext) (string, []string) {
	var b strings.Builder

	writeCaseContext(&b, pc)

	writeSection(&b, "diagnostic_assessment", upstreamOrNotice(pc, StageDiagnostic))
	writeSection(&b, "guideline_assessment", upstreamOrNotice(pc, StageGuideline))

	var sources []string
	if ref, refSources := s.lookupReferences(ctx, pc); ref != "" {
		writeSection(&b, "reference_material",
			"Literature excerpts retrieved for this case:",
			ref)
		sources = refSources
	}

	writeSection(&b, "task",
		"Identify the key studies supporting or challenging the working differential and the cited guidance.",
		"For each study give its type, year and why it is relevant here.",
		"Classify the overall evidence strength and list the limitations a reviewer should know about.")

	writeSection(&b, "output_format",
		"Respond with ONLY valid JSON:",
		"{",
		`  "key_studies": [{"title": "...", "type": "RCT|meta-analysis|cohort|case series", "year": 2020, "relevance": "..."}],`,
		`  "evidence_strength": "Strong|Moderate|Weak",`,
		`  "limitations": ["..."],`,
		`  "confidence": 65,`,
		`  "reasoning": ["..."]`,
		"}")

	return b.String(), sources
}

func (s *EvidenceStage) lookupReferences(ctx context.Context, pc *PipelineContext) (string, []string) {
	if s.retriever == nil {
		return "", nil
	}

	query := pc.ClinicalQuestion
	if dd, ok := pc.CompletedDetails(StageDiagnostic).(*DiagnosticDetails); ok && dd.PrimarySuspicion != "" {
		query += " " + dd.PrimarySuspicion + " evidence"
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

func (s *EvidenceStage) ParseResponse(raw string) (*ParsedStage, error) {
	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var d EvidenceDetails
	if err := json.Unmarshal([]byte(jsonContent), &d); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	d.Stage = StageEvidence

	if d.Strength == "" {
		d.Strength = "Weak"
	}

	summary := fmt.Sprintf("Evidence: %s strength, %d key study(ies), %d limitation(s)",
		d.Strength, len(d.Studies), len(d.Limitations))

	return &ParsedStage{
		Details:    &d,
		Summary:    summary,
		Confidence: clampConfidence(d.Confidence),
		Reasoning:  d.Reasoning,
	}, nil
}
