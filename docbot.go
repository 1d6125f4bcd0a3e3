// Package docbot answers natural language questions over a fixed corpus of
// scraped documentation. Raw pages are split into overlapping chunks,
// embedded, and held in an in-memory vector index; at question time a
// guardrail check, retrieval, prompt assembly, generation and follow-up
// suggestion run in order.
//
// This package contains domain types, interfaces and the pure pieces of the
// pipeline (chunking, similarity search, prompt assembly). Implementations
// of external capabilities live in subdirectories named after their primary
// dependency (e.g., sqlite/, gemini/, openai/, goquery/).
package docbot
