// Package sources contains one adapter per upstream feed: quote history,
// foreign-institutional flow, large-trader futures open interest, and the
// broker-flow and ranking report dumps, plus trading-day discovery.
//
// Every adapter turns its raw fetch result into either a typed payload or an
// explicit failure reason. Network errors, empty payloads and layout drift
// all become Section failures; nothing raises past an adapter's boundary, so
// one dead upstream never aborts a sibling. Adapters hold no state beyond
// their configuration and are independently retryable.
package sources
