package eslookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/aquasecurity/esquery"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/sethvargo/go-retry"

	"github.com/hupe1980/eslookup/indexname"
	"github.com/hupe1980/eslookup/model"
	"github.com/hupe1980/eslookup/project"
	"github.com/hupe1980/eslookup/transport"
)

// Lookuper performs point lookups of key rows against a document store.
type Lookuper interface {
	// Open acquires the remote client and prepares the executor for lookups.
	Open(ctx context.Context) error

	// Lookup issues one query for the key row and returns the matching
	// output rows. An empty slice with a nil error means "no match"; a
	// transport or store failure is returned as a *LookupFailure and is
	// never folded into an empty result.
	Lookup(ctx context.Context, keyRow model.Row) ([]model.Row, error)

	// Close releases the client. Close is idempotent.
	Close() error
}

type state uint8

const (
	stateUnopened state = iota
	stateOpened
	stateClosed
)

// Executor is the per-task lookup executor. One instance is opened per
// parallel task; Lookup may be called from that task's goroutine between Open
// and Close. The executor itself guards its lifecycle state, so concurrent
// Lookup calls are also safe.
type Executor struct {
	endpoints []transport.Endpoint
	tcfg      transport.Config
	rawIndex  string
	schema    *model.Schema
	keys      *project.KeySpec
	opts      options

	mu            sync.RWMutex
	state         state
	client        *elasticsearch.Client
	httpTransport *http.Transport
	pattern       *indexname.Pattern
	sourceFields  []string
}

var _ Lookuper = (*Executor)(nil)

func newExecutor(
	endpoints []transport.Endpoint,
	tcfg transport.Config,
	index string,
	schema *model.Schema,
	keys *project.KeySpec,
	optFns ...Option,
) *Executor {
	return &Executor{
		endpoints: endpoints,
		tcfg:      tcfg,
		rawIndex:  index,
		schema:    schema,
		keys:      keys,
		opts:      applyOptions(optFns),
	}
}

// Open compiles the index pattern, builds the remote client and transitions
// the executor to its opened state. Opening an already opened executor is a
// no-op; opening a closed one returns ErrClosed.
func (e *Executor) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateOpened:
		return nil
	case stateClosed:
		return ErrClosed
	}

	pattern, err := indexname.Compile(e.rawIndex, e.schema)
	if err != nil {
		e.opts.metrics.RecordOpen(err)
		e.opts.logger.LogOpen(ctx, len(e.endpoints), 0, err)
		return err
	}

	cfg, httpTransport := e.tcfg.Apply(e.endpoints)
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		e.opts.metrics.RecordOpen(err)
		e.opts.logger.LogOpen(ctx, len(e.endpoints), 0, err)
		return fmt.Errorf("eslookup: building client: %w", err)
	}

	e.client = client
	e.httpTransport = httpTransport
	e.pattern = pattern
	e.sourceFields = e.schema.FieldNames()
	e.state = stateOpened

	e.opts.metrics.RecordOpen(nil)
	e.opts.logger.LogOpen(ctx, len(e.endpoints), len(e.sourceFields), nil)

	return nil
}

// Lookup resolves the target index for the key row, issues one query and
// decodes every hit into an output row. Valid only between Open and Close.
func (e *Executor) Lookup(ctx context.Context, keyRow model.Row) ([]model.Row, error) {
	e.mu.RLock()
	switch e.state {
	case stateUnopened:
		e.mu.RUnlock()
		return nil, ErrNotOpened
	case stateClosed:
		e.mu.RUnlock()
		return nil, ErrClosed
	}
	client := e.client
	pattern := e.pattern
	sourceFields := e.sourceFields
	e.mu.RUnlock()

	start := time.Now()
	rows, err := e.lookup(ctx, client, pattern, sourceFields, keyRow)
	e.opts.metrics.RecordLookup(time.Since(start), len(rows), err)

	return rows, err
}

func (e *Executor) lookup(
	ctx context.Context,
	client *elasticsearch.Client,
	pattern *indexname.Pattern,
	sourceFields []string,
	keyRow model.Row,
) ([]model.Row, error) {
	if e.opts.limiter != nil {
		if err := e.opts.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	index, err := pattern.Resolve(keyRow, e.opts.clock(), e.opts.zone)
	if err != nil {
		e.opts.logger.LogLookup(ctx, pattern.Raw(), e.keys.Len(), 0, err)
		return nil, err
	}

	keyValues, err := e.keys.Project(keyRow)
	if err != nil {
		e.opts.logger.LogLookup(ctx, index, e.keys.Len(), 0, err)
		return nil, err
	}

	body, err := e.buildBody(keyValues, sourceFields)
	if err != nil {
		return nil, err
	}

	if d, ok := e.tcfg.CallTimeout(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var rows []model.Row
	if e.opts.maxRetries > 0 {
		backoff := retry.WithMaxRetries(uint64(e.opts.maxRetries), retry.NewFibonacci(100*time.Millisecond))
		err = retry.Do(ctx, backoff, func(ctx context.Context) error {
			var searchErr error
			rows, searchErr = e.search(ctx, client, index, body)
			var lf *LookupFailure
			if errors.As(searchErr, &lf) && lf.Retryable() {
				e.opts.metrics.RecordRetry()
				return retry.RetryableError(searchErr)
			}
			return searchErr
		})
	} else {
		rows, err = e.search(ctx, client, index, body)
	}

	e.opts.logger.LogLookup(ctx, index, e.keys.Len(), len(rows), err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// buildBody assembles the search request: one match_phrase clause per key
// field, combined conjunctively, with _source limited to the output schema.
func (e *Executor) buildBody(keyValues []project.KeyValue, sourceFields []string) ([]byte, error) {
	boolQ := esquery.Bool()
	for _, kv := range keyValues {
		boolQ = boolQ.Must(esquery.MatchPhrase(kv.Field, kv.Value))
	}

	envelope := map[string]any{
		"query":   boolQ.Map(),
		"_source": map[string]any{"includes": sourceFields},
	}
	if e.opts.maxResults > 0 {
		envelope["size"] = e.opts.maxResults
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("eslookup: encoding search request: %w", err)
	}
	return body, nil
}

// searchEnvelope is the slice of the search response the executor consumes.
// Document bodies stay raw so the configured codec owns their decoding.
type searchEnvelope struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *Executor) search(ctx context.Context, client *elasticsearch.Client, index string, body []byte) ([]model.Row, error) {
	res, err := client.Search(
		client.Search.WithContext(ctx),
		client.Search.WithIndex(index),
		client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, &LookupFailure{Index: index, retryable: true, cause: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound && e.opts.allowMissingIndex {
			io.Copy(io.Discard, res.Body)
			return []model.Row{}, nil
		}
		retryable := res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
		return nil, &LookupFailure{
			Index:      index,
			StatusCode: res.StatusCode,
			retryable:  retryable,
			cause:      fmt.Errorf("%s", res.String()),
		}
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, &LookupFailure{Index: index, retryable: true, cause: fmt.Errorf("decoding response: %w", err)}
	}

	rows := make([]model.Row, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		var doc map[string]any
		if err := e.opts.codec.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("eslookup: decoding document from index %q: %w", index, err)
		}
		row, err := model.RowFromDocument(e.schema, doc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close releases the client and transitions to the terminal state. Close is
// idempotent and safe on an executor that was never opened.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateClosed {
		return nil
	}
	opened := e.state == stateOpened
	e.state = stateClosed

	if opened && e.httpTransport != nil {
		e.httpTransport.CloseIdleConnections()
	}
	e.client = nil

	if opened {
		e.opts.metrics.RecordClose(nil)
		e.opts.logger.LogClose(nil)
	}
	return nil
}
