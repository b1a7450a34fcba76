// Package integrations provides the shared HTTP client for external
// metadata APIs.
//
// # Overview
//
// glow talks to BI servers over their REST APIs. Each server type has its
// own subpackage built on [Client]:
//
//   - [tableau]: Tableau Server / Tableau Cloud REST API
//
// # Client
//
// [Client] handles the concerns every API client shares:
//
//   - Default headers (User-Agent, session tokens)
//   - Client-side rate limiting with golang.org/x/time/rate
//   - Retries with exponential backoff for network errors, 429 and 5xx
//   - Response caching through [cache.Cache]
//   - Request/response hooks from [observability]
//
// Responses are returned as raw bytes; callers decode XML or JSON
// themselves.
//
// [tableau]: github.com/matzehuels/glow/pkg/integrations/tableau
// [cache.Cache]: github.com/matzehuels/glow/pkg/cache
// [observability]: github.com/matzehuels/glow/pkg/observability
package integrations
