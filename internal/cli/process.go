package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimstream/internal/asr"
	"github.com/ppiankov/claimstream/internal/cache"
	"github.com/ppiankov/claimstream/internal/llm"
	"github.com/ppiankov/claimstream/internal/media"
	"github.com/ppiankov/claimstream/internal/metrics"
	"github.com/ppiankov/claimstream/internal/model"
	"github.com/ppiankov/claimstream/internal/pipeline"
	"github.com/ppiankov/claimstream/internal/rerank"
	"github.com/ppiankov/claimstream/internal/search"
	"github.com/ppiankov/claimstream/internal/secrets"
	"github.com/ppiankov/claimstream/internal/store"
	"github.com/ppiankov/claimstream/internal/worker"
)

var (
	processURL      string
	processVideoID  string
	processTimeout  time.Duration
	processNoSave   bool
	processOutJSON  string
	processASRURL   string
	processLLMModel string
	processNoCache  bool
	processFullText bool
	processResults  int
	secretsDir      string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [video-file]",
	Short: "Run a video through the full verification pipeline",
	Long: `Process extracts audio from a video, transcribes it, extracts factual
claims, retrieves and reranks web evidence, verifies each claim, and
stores the results.

Example:
  claimstream process lecture.mp4
  claimstream process --url https://youtube.com/watch?v=abc --id abc
  claimstream process lecture.mp4 --no-save --json run.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processURL, "url", "", "download the video from this URL instead of a local file")
	processCmd.Flags().StringVar(&processVideoID, "id", "", "video identifier (default: file name without extension)")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 30*time.Minute, "overall pipeline timeout")
	processCmd.Flags().BoolVar(&processNoSave, "no-save", false, "skip persisting results to the database")
	processCmd.Flags().StringVar(&processOutJSON, "json", "", "write the run record to this JSON file")
	processCmd.Flags().StringVar(&processASRURL, "asr-url", "", "transcription service base URL")
	processCmd.Flags().StringVar(&processLLMModel, "llm-model", "", "LLM model name")
	processCmd.Flags().BoolVar(&processNoCache, "no-cache", false, "disable search and page caches")
	processCmd.Flags().BoolVar(&processFullText, "full-text", false, "extract full page text for evidence (slower)")
	processCmd.Flags().IntVar(&processResults, "num-results", 0, "search results per claim (default from config)")
	processCmd.Flags().StringVar(&secretsDir, "secrets-dir", "", "directory of one-file-per-key secrets")
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processURL == "" && len(args) == 0 {
		return fmt.Errorf("a video file or --url is required")
	}

	cfg := loadConfig()
	if processASRURL != "" {
		cfg.ASR.BaseURL = processASRURL
	}
	if processLLMModel != "" {
		cfg.LLM.Model = processLLMModel
	}
	if processNoCache {
		cfg.Cache.Enabled = false
	}
	if processFullText {
		cfg.Search.ExtractFullText = true
	}
	if processResults > 0 {
		cfg.Search.NumResults = processResults
	}
	cfg.Verbose = verbose

	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		return err
	}
	cfg.LLM.APIKey = secrets.Resolve(loaded, "OPENAI_API_KEY", "openai_api_key")
	cfg.Search.APIKey = secrets.Resolve(loaded, "GOOGLE_API_KEY", "google_api_key")
	cfg.Search.SearchEngineID = secrets.Resolve(loaded, "GOOGLE_SEARCH_ENGINE_ID", "google_search_engine_id")
	if token := secrets.Resolve(loaded, "INFLUXDB_TOKEN", "influxdb_token"); token != "" {
		cfg.Metrics.Token = token
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set (environment or --secrets-dir)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	manager, err := media.NewManager(cfg.Media.DataDir, cfg.Media.SampleRate)
	if err != nil {
		return err
	}

	videoPath, videoID, err := resolveVideo(ctx, manager, args)
	if err != nil {
		return err
	}

	orchestrator, closers, err := buildPipeline(cfg, manager)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s (id=%s)\n", videoPath, videoID)
	}

	run := orchestrator.ProcessVideo(ctx, videoPath, videoID, !processNoSave)

	printRunSummary(run)

	if processOutJSON != "" {
		if err := writeRunJSON(processOutJSON, run); err != nil {
			return err
		}
	}

	if run.Status == model.StatusFailed {
		return fmt.Errorf("pipeline failed: %s", run.Error)
	}
	return nil
}

// resolveVideo returns the local path and ID of the video to process,
// downloading it first when --url is set
func resolveVideo(ctx context.Context, manager *media.Manager, args []string) (string, string, error) {
	if processURL != "" {
		id := processVideoID
		if id == "" {
			return "", "", fmt.Errorf("--id is required with --url")
		}
		path, err := manager.DownloadVideo(ctx, processURL, id)
		if err != nil {
			return "", "", err
		}
		return path, id, nil
	}

	path := args[0]
	id := processVideoID
	if id == "" {
		base := filepath.Base(path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return path, id, nil
}

// buildPipeline wires all stage implementations from the configuration.
// The returned closers release the store and metrics recorder.
func buildPipeline(cfg *model.Config, manager *media.Manager) (*pipeline.Orchestrator, []func(), error) {
	var closers []func()

	recorder := metrics.NewRecorder(cfg.Metrics)
	closers = append(closers, func() { recorder.Close() })

	asrClient := asr.NewClient(cfg.ASR.BaseURL, cfg.ASR.Timeout, cfg.HTTP.MaxRetries)

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, closers, err
	}
	if provider == nil {
		return nil, closers, fmt.Errorf("an LLM provider is required for the pipeline (set llm.provider)")
	}
	claimService := llm.NewClaimService(provider, recorder)

	var searchCache, pageCache cache.Cache
	if cfg.Cache.Enabled {
		searchCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		if cfg.Cache.Dir != "" {
			pageCache, err = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
			if err != nil {
				return nil, closers, err
			}
		} else {
			pageCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	searchClient := search.NewClient(cfg.Search.APIKey, cfg.Search.SearchEngineID,
		cfg.Search.Timeout, cfg.HTTP.MaxRetries, searchCache, cfg.Cache.TTL)
	limiter := worker.NewLimiter(cfg.Search.RatePerSecond, cfg.Search.RateBurst)
	extractor := search.NewPageExtractor(cfg.HTTP.Timeout, cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes, cfg.Search.MaxTextLength, limiter, pageCache, cfg.Cache.TTL)
	retriever := search.NewRetriever(searchClient, extractor,
		cfg.Search.NumResults, cfg.Search.ExtractFullText, cfg.Search.Workers)

	reranker := rerank.NewReranker(cfg.Rerank.Weights)

	var runStore pipeline.RunStore
	if !processNoSave {
		s, err := store.New(cfg.Storage.Path)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, func() { s.Close() })
		runStore = s
	}

	return pipeline.NewOrchestrator(manager, asrClient, claimService,
		retriever, reranker, runStore, recorder), closers, nil
}

func printRunSummary(run *model.PipelineRun) {
	fmt.Printf("Run %s: %s (%.1fs)\n", run.RunID, run.Status, run.TotalTime.Seconds())
	if run.Error != "" {
		fmt.Printf("Error: %s\n", run.Error)
		return
	}
	fmt.Printf("Claims: %d\n", len(run.Claims))
	for _, v := range run.Verifications {
		fmt.Printf("  [%s] %.2f %s\n", v.Label, v.Confidence, v.ClaimText)
	}
}

func writeRunJSON(path string, run *model.PipelineRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Run record written to %s\n", path)
	}
	return nil
}
