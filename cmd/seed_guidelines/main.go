package main

import (
	"context"
	"log"
	"os"

	"healthmesh-be/internal/config"
	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/pkg/logger"
	"healthmesh-be/internal/repository/unitofwork"
	"healthmesh-be/internal/service"
	"healthmesh-be/pkg/database"
	"healthmesh-be/pkg/embedding"

	"github.com/fatih/color"
)

// Seeds a small starter corpus so retrieval has something to cite before
// real guideline documents are ingested through the API.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	seedLogger := logger.NewIsolatedLogger("logs/seed.log")
	guidelineService := service.NewGuidelineService(uowFactory, embeddingProvider, seedLogger)

	color.Cyan("Seeding starter guideline corpus...")

	ctx := context.Background()
	for org, docs := range starterCorpus() {
		color.Yellow("[%s] reseeding %d documents", org, len(docs))
		chunks, err := guidelineService.Reseed(ctx, org, docs)
		if err != nil {
			color.Red("[%s] failed: %v", org, err)
			log.Fatal(err)
		}
		color.Green("[%s] indexed %d chunks", org, chunks)
	}

	color.Green("Done.")
}

func starterCorpus() map[string][]*dto.IngestGuidelineRequest {
	return map[string][]*dto.IngestGuidelineRequest{
		"NICE": {
			{
				Organization: "NICE",
				Title:        "Sepsis: recognition, diagnosis and early management",
				Section:      "Risk stratification",
				Document: `Assess people with suspected sepsis using a structured set of observations ` +
					`including temperature, heart rate, respiratory rate, blood pressure, level of ` +
					`consciousness and oxygen saturation. Treat a NEWS2 aggregate score of 7 or more ` +
					`as high risk of severe illness or death from sepsis: arrange emergency review by ` +
					`a senior clinical decision maker and consider transfer to a higher level of care. ` +
					`For scores of 5 or 6, arrange urgent review within one hour and repeat observations ` +
					`at least every 30 minutes. Give a broad-spectrum antimicrobial at the maximum ` +
					`recommended dose without delay, ideally within one hour of establishing high risk, ` +
					`after blood cultures have been taken where this does not delay treatment. Measure ` +
					`serum lactate; a lactate above 2 mmol per litre indicates tissue hypoperfusion and ` +
					`a lactate above 4 mmol per litre indicates a high risk of death sufficient to ` +
					`trigger immediate fluid resuscitation with crystalloid at 500 ml over less than ` +
					`15 minutes.`,
			},
			{
				Organization: "NICE",
				Title:        "Acute kidney injury: prevention, detection and management",
				Section:      "Detection",
				Document: `Detect acute kidney injury by measuring serum creatinine and comparing with ` +
					`baseline: a rise of 26 micromol per litre or more within 48 hours, a rise of 50 ` +
					`percent or more within 7 days, or a fall in urine output to below 0.5 ml per kg ` +
					`per hour for more than 6 hours all meet the diagnostic threshold. Review all ` +
					`medicines in people with acute kidney injury and stop nephrotoxic agents such as ` +
					`NSAIDs, aminoglycosides and, where appropriate, ACE inhibitors and angiotensin ` +
					`receptor blockers. Adjust doses of renally excreted drugs to the estimated ` +
					`glomerular filtration rate and avoid metformin when eGFR falls below 30.`,
			},
		},
		"AHA": {
			{
				Organization: "AHA",
				Title:        "Management of anticoagulation in atrial fibrillation",
				Section:      "Drug interactions",
				Document: `Warfarin has a narrow therapeutic index and clinically significant interactions ` +
					`with amiodarone, fluconazole, trimethoprim-sulfamethoxazole, metronidazole and ` +
					`NSAIDs, each of which can markedly raise INR and bleeding risk. When amiodarone is ` +
					`started in a patient taking warfarin, reduce the warfarin dose by 30 to 50 percent ` +
					`and recheck INR within one week. Concurrent use of warfarin with antiplatelet ` +
					`agents should be limited to situations with a clear indication, at the lowest ` +
					`effective doses, with proton pump inhibitor cover considered for gastroprotection. ` +
					`Direct oral anticoagulants are contraindicated in severe renal impairment and with ` +
					`strong inhibitors of both CYP3A4 and P-glycoprotein such as ketoconazole.`,
			},
		},
	}
}
