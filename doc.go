// Package eslookup implements the point-lookup join path against an
// Elasticsearch index for a streaming query engine.
//
// For each incoming key row the executor resolves the target index name
// (supporting dynamic patterns with date formatting), builds a conjunctive
// exact-match query over the declared key fields, issues one synchronous
// search restricted to the output schema's fields, and decodes every hit
// back into a structured row through a pluggable codec.
//
// # Quick Start
//
// Declare the physical schema and build an executor:
//
//	schema := model.MustSchema(
//	    model.Field{Name: "id", Type: model.TypeString},
//	    model.Field{Name: "name", Type: model.TypeString},
//	)
//
//	exec, err := eslookup.New("http://localhost:9200").
//	    Index("users").
//	    Schema(schema).
//	    Keys("id").
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	if err := exec.Open(ctx); err != nil {
//	    panic(err)
//	}
//	defer exec.Close()
//
//	rows, err := exec.Lookup(ctx, model.NewRow("42", nil))
//
// An empty result is a valid "no match"; transport failures surface as a
// typed *LookupFailure and are never folded into an empty result.
//
// # Dynamic Index Names
//
// Index patterns may reference row fields and the processing time:
//
//	eslookup.New(hosts...).
//	    Index("orders-{ts|yyyy.MM.dd}").
//	    TimeZone(zone).
//	    ...
//
// # Lifecycle and Concurrency
//
// One executor is owned by exactly one task and is invoked serially; run one
// executor per parallel subtask. Open acquires the client and compiles the
// index pattern, Close releases the client and is idempotent.
//
// # Composition
//
// Optional behavior composes over the Lookuper interface rather than being
// baked into the executor; see NewCachedLookuper for a capacity-bounded
// lookup cache.
package eslookup
