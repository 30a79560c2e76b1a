package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/energydb"
	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
	"github.com/gorilla/websocket"
)

type stubReader struct {
	batch   types.EnergyBatch
	records []types.EnergyRecord
	totals  []energydb.DailyTotal
	err     error

	from, to time.Time
}

func (s *stubReader) LatestBatch() (types.EnergyBatch, error) {
	return s.batch, s.err
}

func (s *stubReader) RecordsBetween(from, to time.Time) ([]types.EnergyRecord, error) {
	s.from, s.to = from, to
	return s.records, s.err
}

func (s *stubReader) DailyTotals(from, to time.Time) ([]energydb.DailyTotal, error) {
	s.from, s.to = from, to
	return s.totals, s.err
}

func serve(t *testing.T, reader *stubReader, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	newRouter(reader).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestLatestWithoutRecords(t *testing.T) {
	rec := serve(t, &stubReader{batch: types.EnergyBatch{Records: []types.EnergyRecord{}}}, "/latest")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLatestReturnsBatch(t *testing.T) {
	reader := &stubReader{batch: types.EnergyBatch{
		RunID: "run-1",
		Zone:  "DE",
		Records: []types.EnergyRecord{
			{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EnergyKWh: 23, CO2eqG: 9200, CostEUR: 2.3},
		},
	}}
	rec := serve(t, reader, "/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body types.EnergyBatch
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RunID != "run-1" || len(body.Records) != 1 || body.Records[0].EnergyKWh != 23 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestLatestStoreError(t *testing.T) {
	rec := serve(t, &stubReader{err: errors.New("database is locked")}, "/latest")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRecordsRange(t *testing.T) {
	reader := &stubReader{records: []types.EnergyRecord{}}
	rec := serve(t, reader, "/records?from=2024-03-02T00:00:00Z&to=2024-03-09T23:59:59Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !reader.from.Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)) ||
		!reader.to.Equal(time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("unexpected range %s..%s", reader.from, reader.to)
	}
}

func TestRecordsInvalidRange(t *testing.T) {
	for _, target := range []string{
		"/records?from=yesterday",
		"/records?to=2024-13-01",
		"/records?from=2024-03-09T00:00:00Z&to=2024-03-02T00:00:00Z",
		"/daily?from=2024-03-09",
	} {
		rec := serve(t, &stubReader{}, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestDailyTotals(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	reader := &stubReader{totals: []energydb.DailyTotal{
		{DayStart: day, EnergyKWh: 5520, CO2eqG: 2208000, CostEUR: 552, SampleCount: 96},
	}}
	rec := serve(t, reader, "/daily?from=2024-03-02T00:00:00Z&to=2024-03-02T00:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body []energydb.DailyTotal
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body[0].SampleCount != 96 || !body[0].DayStart.Equal(day) {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWebSocketFeed(t *testing.T) {
	reader := &stubReader{batch: types.EnergyBatch{
		RunID:   "run-1",
		Zone:    "DE",
		Records: []types.EnergyRecord{{EnergyKWh: 23}},
	}}
	server := httptest.NewServer(newRouter(reader))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readBatch := func() types.EnergyBatch {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var batch types.EnergyBatch
		if err := json.Unmarshal(message, &batch); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return batch
	}

	// Latest batch arrives on connect
	if batch := readBatch(); batch.RunID != "run-1" {
		t.Fatalf("unexpected initial batch %+v", batch)
	}

	BroadcastToWebSockets(types.EnergyBatch{RunID: "run-2", Zone: "DE", Records: []types.EnergyRecord{{EnergyKWh: 46}}})
	if batch := readBatch(); batch.RunID != "run-2" || batch.Records[0].EnergyKWh != 46 {
		t.Fatalf("unexpected broadcast batch %+v", batch)
	}
}

func TestWebSocketConnectDuringBroadcast(t *testing.T) {
	reader := &stubReader{batch: types.EnergyBatch{
		RunID:   "run-1",
		Zone:    "DE",
		Records: []types.EnergyRecord{{EnergyKWh: 23}},
	}}
	server := httptest.NewServer(newRouter(reader))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		next := types.EnergyBatch{RunID: "run-2", Zone: "DE", Records: []types.EnergyRecord{{EnergyKWh: 46}}}
		for {
			select {
			case <-stop:
				return
			default:
				BroadcastToWebSockets(next)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			close(stop)
			wg.Wait()
			t.Fatalf("dial %d: %v", i, err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, message, err := conn.ReadMessage()
		conn.Close()
		if err != nil {
			close(stop)
			wg.Wait()
			t.Fatalf("read %d: %v", i, err)
		}
		var batch types.EnergyBatch
		if err := json.Unmarshal(message, &batch); err != nil || (batch.RunID != "run-1" && batch.RunID != "run-2") {
			close(stop)
			wg.Wait()
			t.Fatalf("unexpected message %d: %s", i, message)
		}
	}

	close(stop)
	wg.Wait()
}
