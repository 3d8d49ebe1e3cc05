package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/chroma"
	"github.com/talentiq/recommender/internal/config"
	"github.com/talentiq/recommender/internal/crawler"
	"github.com/talentiq/recommender/internal/database"
	"github.com/talentiq/recommender/internal/embedding"
	"github.com/talentiq/recommender/internal/evaluation"
	"github.com/talentiq/recommender/internal/models"
	"github.com/talentiq/recommender/internal/repository"
	"github.com/talentiq/recommender/pkg/utils"
)

// CatalogSeeder scrapes product pages and mirrors them into Postgres and
// the vector store.
type CatalogSeeder struct {
	collector       *colly.Collector
	chromaService   *chroma.Service
	embeddingClient *embedding.Client
	repoManager     *repository.RepositoryManager
	logger          *logrus.Logger
	results         map[string]crawler.Product
	fetchErrors     map[string]error
	processed       int
	fallbacks       int
	errors          []error
}

var (
	datasetPath = flag.String("dataset", "data/train_set.csv", "Labeled dataset CSV with the catalog URLs")
	dryRun      = flag.Bool("dry-run", false, "Don't write to the database or vector store, just print what would be stored")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	urlLimit    = flag.Int("limit", 0, "Limit number of URLs to process (0 = all)")
	concurrent  = flag.Int("concurrent", 2, "Number of concurrent requests")
	delay       = flag.Duration("delay", 1*time.Second, "Delay between requests")
	reset       = flag.Bool("reset", false, "Drop and recreate the vector store collection before seeding")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.Info("Starting assessment catalog seeder...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	urls, err := loadCatalogURLs(*datasetPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog URLs")
	}
	if *urlLimit > 0 && *urlLimit < len(urls) {
		urls = urls[:*urlLimit]
		logger.WithField("limit", *urlLimit).Info("Limited URLs to process")
	}
	logger.WithField("total_urls", len(urls)).Info("Catalog URLs loaded")

	var chromaService *chroma.Service
	var embeddingClient *embedding.Client
	var repoManager *repository.RepositoryManager
	var dbManager *database.Manager

	if !*dryRun {
		if err := cfg.ValidateEmbeddings(); err != nil {
			logger.WithError(err).Fatal("Embeddings configuration validation failed")
		}
		if err := cfg.ValidateChroma(); err != nil {
			logger.WithError(err).Fatal("Chroma configuration validation failed")
		}

		dbConfig := &database.Config{
			DatabaseURL: cfg.Database.URL,
			RedisURL:    cfg.Redis.URL,
			LogLevel:    os.Getenv("LOG_LEVEL"),
		}

		dbManager, err = database.NewManager(dbConfig, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize database manager")
		}
		defer dbManager.Close()

		if err := dbManager.Migrate(); err != nil {
			logger.WithError(err).Fatal("Failed to run database migrations")
		}

		repoManager = repository.NewRepositoryManager(dbManager.DB)

		chromaClient := chroma.NewClient(cfg.Chroma.BaseURL, logger)
		chromaService = chroma.NewService(chromaClient, cfg.Chroma.Collection, logger)
		embeddingClient = embedding.NewClient(cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model, logger)
	}

	seeder := NewCatalogSeeder(chromaService, embeddingClient, repoManager, logger)

	ctx := context.Background()

	if *reset && !*dryRun {
		if err := chromaService.Reset(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to reset vector store collection")
		}
		logger.Info("Vector store collection reset")
	}

	if err := seeder.SeedCatalog(ctx, urls); err != nil {
		logger.WithError(err).Fatal("Catalog seeding failed")
	}

	logger.Info("Catalog seeding completed successfully!")
}

// loadCatalogURLs extracts the unique product URLs from the labeled
// dataset, preserving first-seen order.
func loadCatalogURLs(path string) ([]string, error) {
	truth, err := evaluation.LoadGroundTruth(path)
	if err != nil {
		return nil, err
	}

	var urls []string
	seen := make(map[string]bool)
	for _, query := range truth.Queries {
		for _, url := range truth.URLs[query] {
			if seen[url] {
				continue
			}
			seen[url] = true
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs found in %s", path)
	}
	return urls, nil
}

func NewCatalogSeeder(chromaService *chroma.Service, embeddingClient *embedding.Client, repoManager *repository.RepositoryManager, logger *logrus.Logger) *CatalogSeeder {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: *concurrent,
		Delay:       *delay,
	})

	c.SetRequestTimeout(30 * time.Second)

	seeder := &CatalogSeeder{
		collector:       c,
		chromaService:   chromaService,
		embeddingClient: embeddingClient,
		repoManager:     repoManager,
		logger:          logger,
		results:         make(map[string]crawler.Product),
		fetchErrors:     make(map[string]error),
		errors:          make([]error, 0),
	}

	c.OnResponse(func(r *colly.Response) {
		url := r.Request.URL.String()

		if bytes.Contains(r.Body, []byte(crawler.BrowserWarningMarker)) {
			seeder.fetchErrors[url] = fmt.Errorf("browser detection warning")
			return
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			seeder.fetchErrors[url] = err
			return
		}

		seeder.results[url] = crawler.ExtractProduct(doc, url)
	})

	c.OnError(func(r *colly.Response, err error) {
		seeder.fetchErrors[r.Request.URL.String()] = err
	})

	return seeder
}

func (s *CatalogSeeder) SeedCatalog(ctx context.Context, urls []string) error {
	s.logger.Info("Starting catalog seeding process...")

	for i, url := range urls {
		s.logger.WithFields(logrus.Fields{
			"url":      url,
			"progress": fmt.Sprintf("%d/%d", i+1, len(urls)),
		}).Info("Processing product page")

		product := s.fetchProduct(url)
		if product.Fallback {
			s.fallbacks++
		}

		if err := s.storeProduct(ctx, product); err != nil {
			s.logger.WithError(err).WithField("url", url).Error("Failed to store product")
			s.errors = append(s.errors, fmt.Errorf("failed to store %s: %w", url, err))
			continue
		}

		s.processed++
	}

	s.logger.WithFields(logrus.Fields{
		"processed": s.processed,
		"fallbacks": s.fallbacks,
		"errors":    len(s.errors),
	}).Info("Catalog seeding completed")

	if len(s.errors) > 0 {
		s.logger.Warn("Some products failed to store:")
		for _, err := range s.errors {
			s.logger.WithError(err).Warn("Seeding error")
		}
	}

	if s.processed == 0 {
		return fmt.Errorf("no products were stored")
	}
	return nil
}

// fetchProduct scrapes one page, degrading to a URL-derived record when the
// page cannot be fetched or parsed.
func (s *CatalogSeeder) fetchProduct(url string) crawler.Product {
	delete(s.results, url)
	delete(s.fetchErrors, url)

	if err := s.collector.Visit(url); err != nil {
		s.logger.WithError(err).WithField("url", url).Warn("Visit failed, using fallback")
		return crawler.FallbackProduct(url)
	}
	s.collector.Wait()

	if err, failed := s.fetchErrors[url]; failed {
		s.logger.WithError(err).WithField("url", url).Warn("Fetch failed, using fallback")
		return crawler.FallbackProduct(url)
	}

	product, ok := s.results[url]
	if !ok {
		s.logger.WithField("url", url).Warn("No content extracted, using fallback")
		return crawler.FallbackProduct(url)
	}

	s.logger.WithFields(logrus.Fields{
		"url":  url,
		"name": product.Name,
	}).Debug("Product extracted")
	return product
}

func (s *CatalogSeeder) storeProduct(ctx context.Context, product crawler.Product) error {
	if *dryRun {
		s.logger.WithFields(logrus.Fields{
			"url":       product.URL,
			"name":      product.Name,
			"test_type": product.TestTypeString(),
			"fallback":  product.Fallback,
			"hash":      product.ContentHash()[:8],
		}).Info("DRY RUN: Would store product")
		return nil
	}

	now := time.Now()
	crawlStatus := "completed"
	if product.Fallback {
		crawlStatus = "fallback"
	}

	assessment := &models.Assessment{
		URL:             product.URL,
		Name:            product.Name,
		Description:     product.Description,
		TestType:        product.TestTypeString(),
		DurationMinutes: product.DurationMinutes,
		AdaptiveSupport: product.AdaptiveSupport,
		RemoteSupport:   product.RemoteSupport,
		ContentHash:     product.ContentHash(),
		CrawlStatus:     crawlStatus,
		LastCrawled:     &now,
		IsActive:        true,
	}

	if err := s.repoManager.Assessment.Upsert(assessment); err != nil {
		return fmt.Errorf("failed to upsert assessment: %w", err)
	}

	vector, err := s.embeddingClient.EmbedWithRetry(ctx, product.PageContent())
	if err != nil {
		return fmt.Errorf("failed to embed content: %w", err)
	}

	if err := s.chromaService.AddAssessment(ctx, product.URL, product.PageContent(), vector, product.Metadata()); err != nil {
		return fmt.Errorf("failed to add to vector store: %w", err)
	}

	return nil
}
