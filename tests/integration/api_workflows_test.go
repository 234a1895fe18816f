package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/femivideograph/script-ai-worker/internal/ai"
	"github.com/femivideograph/script-ai-worker/internal/cache"
	"github.com/femivideograph/script-ai-worker/internal/domain"
	httpserver "github.com/femivideograph/script-ai-worker/internal/http"
	"github.com/femivideograph/script-ai-worker/internal/http/handlers"
	"github.com/femivideograph/script-ai-worker/internal/jobs"
	"github.com/femivideograph/script-ai-worker/internal/quality"
	"github.com/femivideograph/script-ai-worker/internal/queue"
	"github.com/femivideograph/script-ai-worker/internal/repository"
	"github.com/femivideograph/script-ai-worker/internal/scenes"
	"github.com/femivideograph/script-ai-worker/internal/script"
	"github.com/femivideograph/script-ai-worker/internal/service"
	"github.com/femivideograph/script-ai-worker/internal/storage"
	"github.com/femivideograph/script-ai-worker/internal/worker"
)

const threeSceneScript = `INT. KITCHEN - MORNING

MARIA pours coffee and stares at an unopened letter on the counter.

EXT. STREET - DAY

Maria walks fast through traffic, letter clenched in one hand.

INT. OFFICE - NIGHT

She slides the letter across a desk and waits.`

// scriptedPlanner answers deterministically and fails scenes whose heading
// matches failSubstring, so jobs exercise the mixed-outcome path end to end.
type scriptedPlanner struct {
	failSubstring string
}

func (p scriptedPlanner) PlanShots(_ context.Context, request ai.SceneRequest) (ai.SceneBreakdown, error) {
	if p.failSubstring != "" && strings.Contains(request.Heading, p.failSubstring) {
		return ai.SceneBreakdown{}, fmt.Errorf("provider rejected scene")
	}
	return ai.SceneBreakdown{
		SceneLocation: request.Heading,
		ShotList: []domain.Shot{
			{
				Description:    "Wide establishing view of " + strings.ToLower(request.Heading),
				Size:           domain.ShotSizeWide,
				Type:           domain.ShotTypeMaster,
				CameraMovement: domain.CameraMovementStatic,
				Equipment:      domain.EquipmentTripod,
			},
			{
				Description:    "Close on the letter changing hands",
				Size:           domain.ShotSizeCloseUp,
				Type:           domain.ShotTypeInsert,
				CameraMovement: domain.CameraMovementDolly,
				Equipment:      domain.EquipmentGimbal,
			},
		},
	}, nil
}

type integrationRuntime struct {
	server *httptest.Server
	blobs  *storage.MemoryBlobStore
	cancel context.CancelFunc
}

func startIntegrationRuntime(t *testing.T, planner ai.ShotPlanner) integrationRuntime {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	logger := log.New(io.Discard, "", 0)
	status := repository.NewMemoryStatusRepository()
	blobs := storage.NewMemoryBlobStore()
	localQueue := queue.NewLocalQueue(2048, 3, logger)

	sceneCache := cache.NewSceneCache(cache.Config{
		TTL:        10 * time.Minute,
		MaxEntries: 4000,
	})
	processor := scenes.NewProcessor(scenes.ProcessorConfig{
		Planner:   planner,
		Validator: quality.NewBreakdownValidator(),
		Cache:     sceneCache,
		ModelRef:  "integration-model",
		Logger:    logger,
	})

	fetcher := storage.NewFetcher(blobs, storage.FetcherConfig{
		MaxAttempts: 5,
		BaseWait:    time.Millisecond,
		Logger:      logger,
	})
	engine := jobs.NewEngine(jobs.EngineConfig{
		Status:    status,
		Fetcher:   fetcher,
		Blobs:     blobs,
		Processor: processor,
		Chunk:     script.Chunk,
		Logger:    logger,
	})
	dispatcher := jobs.NewDispatcher(engine, status, logger)

	scripts := service.NewScriptsService(blobs, localQueue, dispatcher)
	api := handlers.NewAPI(scripts)
	router := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      "",
		RateLimitRPS:   20000,
		RateLimitBurst: 20000,
	})

	jobWorker := worker.NewProcessor(localQueue, dispatcher, logger)
	go jobWorker.Start(ctx)

	server := httptest.NewServer(router)
	return integrationRuntime{
		server: server,
		blobs:  blobs,
		cancel: func() {
			cancel()
			server.Close()
		},
	}
}

func postJSON(
	t *testing.T,
	client *http.Client,
	url string,
	payload any,
) (int, map[string]any) {
	t.Helper()

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) == 0 {
		return response.StatusCode, map[string]any{}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode response body (%d): %s", response.StatusCode, string(raw))
	}

	return response.StatusCode, decoded
}

func getJSON(t *testing.T, client *http.Client, url string) (int, map[string]any) {
	t.Helper()
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build get request: %v", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute get request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) == 0 {
		return response.StatusCode, map[string]any{}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode get response body (%d): %s", response.StatusCode, string(raw))
	}

	return response.StatusCode, decoded
}

func waitForTerminalJob(
	t *testing.T,
	client *http.Client,
	baseURL string,
	jobID string,
	timeout time.Duration,
) map[string]any {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status, body := getJSON(t, client, fmt.Sprintf("%s/v1/jobs/%s", baseURL, jobID))
		if status != http.StatusOK {
			time.Sleep(20 * time.Millisecond)
			continue
		}

		jobState, _ := body["state"].(string)
		if jobState == "complete" || jobState == "failed" {
			return body
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatalf("timeout waiting for job %s to reach a terminal state", jobID)
	return nil
}

func TestScriptSubmissionProducesShotListsPerScene(t *testing.T) {
	runtime := startIntegrationRuntime(t, scriptedPlanner{failSubstring: "STREET"})
	defer runtime.cancel()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	submitStatus, submitBody := postJSON(t, client, baseURL+"/v1/scripts", map[string]any{
		"script": threeSceneScript,
	})
	if submitStatus != http.StatusAccepted {
		t.Fatalf("expected 202 from script submission, got %d body=%+v", submitStatus, submitBody)
	}
	jobID, _ := submitBody["job_id"].(string)
	if strings.TrimSpace(jobID) == "" {
		t.Fatalf("expected job id in submission response, got %+v", submitBody)
	}
	if state, _ := submitBody["state"].(string); state != "pending" {
		t.Fatalf("expected pending state on submission, got %+v", submitBody["state"])
	}

	job := waitForTerminalJob(t, client, baseURL, jobID, 4*time.Second)
	if state, _ := job["state"].(string); state != "complete" {
		t.Fatalf("expected complete job, got %+v", job)
	}

	progress, ok := job["progress"].(map[string]any)
	if !ok {
		t.Fatalf("expected progress payload in job status, got %+v", job)
	}
	if total, _ := progress["total_scenes"].(float64); total != 3 {
		t.Fatalf("expected 3 total scenes, got %+v", progress)
	}
	if completed, _ := progress["completed_scenes"].(float64); completed != 3 {
		t.Fatalf("expected 3 completed scenes, got %+v", progress)
	}

	results, ok := job["results"].(map[string]any)
	if !ok {
		t.Fatalf("expected results payload in terminal job, got %+v", job)
	}
	successes, _ := results["successful_scenes"].([]any)
	if len(successes) != 2 {
		t.Fatalf("expected 2 successful scenes, got %+v", results["successful_scenes"])
	}
	for _, entry := range successes {
		success, _ := entry.(map[string]any)
		shots, _ := success["shot_list"].([]any)
		if len(shots) == 0 {
			t.Fatalf("expected non-empty shot list per successful scene, got %+v", success)
		}
	}
	failures, _ := results["failed_scenes"].([]any)
	if len(failures) != 1 {
		t.Fatalf("expected 1 failed scene, got %+v", results["failed_scenes"])
	}
	failure, _ := failures[0].(map[string]any)
	if label := fmt.Sprintf("%v", failure["scene"]); !strings.Contains(label, "STREET") {
		t.Fatalf("expected the street scene to fail, got %+v", failure)
	}

	if runtime.blobs.Len() != 0 {
		t.Fatalf("expected source blob cleanup after completion, %d blobs remain", runtime.blobs.Len())
	}
}

func TestSubmissionRejectsMissingScript(t *testing.T) {
	runtime := startIntegrationRuntime(t, scriptedPlanner{})
	defer runtime.cancel()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	status, body := postJSON(t, client, baseURL+"/v1/scripts", map[string]any{
		"script": "   ",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank script, got %d body=%+v", status, body)
	}
	errorEnvelope, ok := body["error"].(map[string]any)
	if !ok || fmt.Sprintf("%v", errorEnvelope["code"]) != "invalid_request" {
		t.Fatalf("expected invalid_request error envelope, got %+v", body)
	}
}

func TestUnknownJobReportsPendingState(t *testing.T) {
	runtime := startIntegrationRuntime(t, scriptedPlanner{})
	defer runtime.cancel()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	status, body := getJSON(t, client, baseURL+"/v1/jobs/never-submitted")
	if status != http.StatusOK {
		t.Fatalf("expected 200 for unknown job, got %d body=%+v", status, body)
	}
	if state, _ := body["state"].(string); state != "pending" {
		t.Fatalf("expected pending state for unknown job, got %+v", body["state"])
	}
	if _, present := body["results"]; present {
		t.Fatalf("expected no results for unknown job, got %+v", body)
	}
}
