// Package nlp is a client for the hosted intent extraction service.
//
// A query is sent as GET {base}/message?v={version}&q={text} with a bearer
// token. The response maps each entity kind ("neighborhood", "datetime", ...)
// to candidates ranked best first, each with a confidence in [0,1].
//
// Responses can be memoised per query text with an in-process TTL cache.
// Failures are never retried.
package nlp
