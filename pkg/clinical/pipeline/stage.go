package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// DefaultConfidence is assumed when a completed stage omits its confidence.
const DefaultConfidence = 50

// Stage is the contract every pipeline stage implements. Stages are
// stateless: per-run data flows through the PipelineContext and the
// returned values only, so one Stage instance is safe across runs.
type Stage interface {
	Key() StageKey

	// Instruction is the fixed role text for the model provider.
	Instruction() string

	// BuildPrompt renders the case-specific prompt from the accumulated
	// context. Retrieval-augmented stages may consult their retriever here;
	// the returned sources are merged into the stage result.
	BuildPrompt(ctx context.Context, pc *PipelineContext) (prompt string, sources []string)

	// ParseResponse validates the raw model output against the stage's
	// expected shape. A parse error marks the stage as errored and is
	// never retried.
	ParseResponse(raw string) (*ParsedStage, error)
}

// ParsedStage is the normalized output of a successful stage call.
type ParsedStage struct {
	Details         Details
	Summary         string
	Confidence      *int
	EvidenceSources []string
	Reasoning       []string
}

// extractJSON pulls the outermost JSON object out of a model response that
// may be wrapped in prose or markdown fences.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

// clampConfidence normalizes a model-reported confidence into [0,100],
// falling back to the default when the value is missing or nonsense.
func clampConfidence(v int) *int {
	if v <= 0 {
		d := DefaultConfidence
		return &d
	}
	if v > 100 {
		v = 100
	}
	return &v
}

func writeSection(b *strings.Builder, tag string, lines ...string) {
	b.WriteString("<" + tag + ">\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("</" + tag + ">\n\n")
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		b.WriteString(fmt.Sprintf("%s: none recorded\n", label))
		return
	}
	b.WriteString(label + ":\n")
	for _, item := range items {
		b.WriteString("  - " + item + "\n")
	}
}

// writeCaseContext renders the shared case header every stage prompt begins
// with: demographics, active problems and the deterministic scores.
func writeCaseContext(b *strings.Builder, pc *PipelineContext) {
	b.WriteString("<case_context>\n")
	b.WriteString(fmt.Sprintf("Patient: %d year old %s", pc.Patient.Age, pc.Patient.Sex))
	if pc.Patient.Summary != "" {
		b.WriteString(". " + pc.Patient.Summary)
	}
	b.WriteString("\n")
	writeList(b, "Active diagnoses", pc.Diagnoses)
	writeList(b, "Active medications", pc.Medications)
	writeList(b, "Known allergies", pc.Allergies)
	b.WriteString("\n")

	if pc.UrgencyScore != nil {
		b.WriteString(fmt.Sprintf("Urgency score (vitals-based): %s\n", pc.UrgencyScore))
	} else {
		b.WriteString("Urgency score: not computed, no vitals recorded\n")
	}
	if pc.OrganScore != nil {
		b.WriteString(fmt.Sprintf("Organ dysfunction score (labs-based): %s\n", pc.OrganScore))
	} else {
		b.WriteString("Organ dysfunction score: not computed, no labs recorded\n")
	}
	b.WriteString(fmt.Sprintf("Combined risk category: %s\n", pc.RiskCategory))
	b.WriteString("</case_context>\n\n")

	writeSection(b, "clinical_question", pc.ClinicalQuestion)
}

// upstreamOrNotice renders an upstream stage's summary, or an explicit
// insufficient-data notice when that stage is missing or errored. Stages
// must keep working either way.
func upstreamOrNotice(pc *PipelineContext, key StageKey) string {
	r, ok := pc.Result(key)
	if !ok {
		return fmt.Sprintf("The %s assessment has not run. Treat its findings as not yet determined.", key)
	}
	if r.Status != StatusCompleted {
		return fmt.Sprintf("The %s assessment failed (%s). Treat its findings as not yet determined.", key, r.Summary)
	}
	return r.Summary
}
