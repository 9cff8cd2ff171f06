package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/newsletterai/api/internal/handler"
	"github.com/newsletterai/api/internal/middleware"
	"github.com/newsletterai/api/internal/repository"
	"github.com/newsletterai/api/internal/service"
)

func main() {
	ctx := context.Background()

	db, err := repository.NewPool(ctx)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	ai := service.NewAIClient()
	importer := service.NewImporter()
	resend := service.NewResendClient()
	billing := service.NewBillingClient()
	trendsProvider := service.NewTrendsProvider()
	cache, err := service.NewJSONCacheFromEnv()
	if err != nil {
		log.Fatalf("cache: %v", err)
	}

	profileRepo := repository.NewProfileRepo(db)
	sourceRepo := repository.NewContentSourceRepo(db)
	analysisRepo := repository.NewAnalysisRepo(db)
	newsletterRepo := repository.NewNewsletterRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)
	insightRepo := repository.NewInsightRepo(db)
	competitorRepo := repository.NewCompetitorRepo(db)
	gapRepo := repository.NewGapRepo(db)
	ideaRepo := repository.NewIdeaRepo(db)
	segmentRepo := repository.NewSegmentRepo(db)
	variantRepo := repository.NewVariantRepo(db)
	trendRepo := repository.NewTrendRepo(db)
	testEmailRepo := repository.NewTestEmailRepo(db)

	internalH := handler.NewInternalHandler(profileRepo)
	contentH := handler.NewContentHandler(sourceRepo, analysisRepo, ai, importer)
	newsletterH := handler.NewNewsletterHandler(newsletterRepo, analysisRepo, sourceRepo,
		profileRepo, testEmailRepo, ai, resend)
	analyticsH := handler.NewAnalyticsHandler(analyticsRepo, insightRepo, newsletterRepo, ai)
	competitorH := handler.NewCompetitorHandler(competitorRepo, newsletterRepo, gapRepo, trendRepo, ai)
	ideaH := handler.NewIdeaHandler(ideaRepo, trendRepo, ai, cache, trendsProvider)
	personalizationH := handler.NewPersonalizationHandler(segmentRepo, variantRepo, newsletterRepo, ai)
	billingH := handler.NewBillingHandler(profileRepo, billing)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	// Called from the auth frontend only, guarded by X-Internal-Secret.
	r.Post("/api/internal/users/upsert", internalH.UpsertUser)

	// Billing provider events; verified by signature, not session.
	r.Post("/api/webhooks/stripe", billingH.Webhook)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Get("/profile", billingH.Profile)

		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentH.List)
			r.Post("/import", contentH.Import)
			r.Post("/analyze", contentH.Analyze)
			r.Get("/{id}", contentH.Get)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/generate", newsletterH.Generate)
			r.Post("/subject-lines", newsletterH.SubjectLines)
			r.Post("/test-email", newsletterH.TestEmail)
		})

		r.Route("/newsletters", func(r chi.Router) {
			r.Get("/", newsletterH.List)
			r.Get("/{id}", newsletterH.Get)
			r.Patch("/{id}", newsletterH.Update)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/", analyticsH.List)
			r.Post("/", analyticsH.Create)
			r.Get("/insights", analyticsH.ListInsights)
			r.Post("/insights", analyticsH.GenerateInsights)
			r.Post("/predictions", analyticsH.Predict)
		})

		r.Route("/competitors", func(r chi.Router) {
			r.Get("/", competitorH.List)
			r.Post("/", competitorH.Create)
			r.Post("/analyze", competitorH.Analyze)
			r.Get("/gaps", competitorH.ListGaps)
			r.Post("/gaps", competitorH.Gaps)
			r.Delete("/{id}", competitorH.Delete)
			r.Get("/{id}/newsletters", competitorH.ListNewsletters)
			r.Post("/{id}/newsletters", competitorH.AddNewsletter)
			r.Post("/{id}/fetch", competitorH.FetchFromFeed)
		})

		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", ideaH.List)
			r.Post("/generate", ideaH.Generate)
			r.Get("/trends", ideaH.Trends)
			r.Patch("/{id}", ideaH.UpdateStatus)
		})

		r.Route("/segments", func(r chi.Router) {
			r.Get("/", personalizationH.ListSegments)
			r.Post("/", personalizationH.CreateSegment)
			r.Delete("/{id}", personalizationH.DeleteSegment)
		})

		r.Route("/personalization", func(r chi.Router) {
			r.Post("/generate-variants", personalizationH.GenerateVariants)
			r.Get("/variants", personalizationH.ListVariants)
		})

		r.Route("/billing", func(r chi.Router) {
			r.Get("/plans", billingH.Plans)
		})

		r.Post("/checkout", billingH.Checkout)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("api listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
