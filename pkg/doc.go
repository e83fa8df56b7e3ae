// Package pkg provides the libraries behind gnparser, a parser for
// biological scientific names.
//
// # Overview
//
// gnparser splits a name string such as "Homo sapiens Linnaeus, 1758" into
// its semantic elements (genus, epithets, ranks, authors, years, hybrid
// markers) and derives canonical forms, authorship, rank and a quality score
// from them. The pkg directory is organized into three areas:
//
//  1. [core] - Domain logic (normalization, grammar, canonical forms, output)
//  2. [parser] and [pipeline] - Orchestration (one name, batches, caching)
//  3. Infrastructure - [cache], [config], [observability], [io]
//
// # Architecture
//
// The data flow for one name:
//
//	name string
//	     ↓
//	[core/token] (normalize, tokenize)
//	     ↓
//	[core/grammar] (parse tree, warnings, unparsed tail)
//	     ↓
//	[core/disambig] (code-specific readings)
//	     ↓
//	[core/canonical] (full, simple, stripped, stemmed)
//	     ↓
//	[core/format] (compact or pretty JSON, CSV, TSV)
//
// # Quick Start
//
// Parse one name to a string:
//
//	out, err := parser.ParseToString("Homo sapiens Linnaeus, 1758", "compact", "zoological", false, false)
//
// Parse into a struct:
//
//	p, _ := parser.New(parser.Options{Code: code.Botanical})
//	res := p.Parse("Aus (Bus) cus Smith")
//	fmt.Println(res.Canonical.Simple, res.Authorship.Normalized)
//
// Parse a batch with missing entries and a result cache:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0, 10*time.Minute), nil, logger)
//	res, err := runner.ParseBatch(ctx, batch.FromValues(names), pipeline.Options{Format: "csv"})
//	// res.Outputs[i] belongs to names[i]; missing names give missing outputs.
//
// # Main Packages
//
// ## Core Domain Logic
//
//   - [core/token]: Unicode normalization, HTML stripping, tokens with offsets
//   - [core/grammar]: Rule tables and the name grammar, quality warnings
//   - [core/tree]: Parse tree nodes and the warning catalogue
//   - [core/disambig]: Subgenus, infraspecies and ex-author readings per code
//   - [core/canonical]: Canonical forms and the Latin stemmer
//   - [core/format]: Serialization of results
//
// ## Orchestration
//
//   - [parser]: One-name API over the core packages
//   - [batch]: Positional worker pool for possibly-missing entries
//   - [pipeline]: Cached single and batch runs shared by the CLI and server
//
// ## Infrastructure
//
//   - [cache]: Result caches (file, memory, Redis, MongoDB)
//   - [config]: TOML configuration
//   - [observability]: Hooks, with Prometheus metrics in observability/prom
//   - [io]: Name list input and line-oriented output
//   - [render/treeviz]: Parse tree drawings via Graphviz
//   - [errors]: Error codes and input validation
//
// [core]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core
// [core/token]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/token
// [core/grammar]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/grammar
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/tree
// [core/disambig]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/disambig
// [core/canonical]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/canonical
// [core/format]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/core/format
// [parser]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/parser
// [batch]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/batch
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/io
// [render/treeviz]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/render/treeviz
// [errors]: https://pkg.go.dev/github.com/matzehuels/gnparser/pkg/errors
package pkg
