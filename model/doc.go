// Package model defines the provider-agnostic abstractions used by the
// response agent to talk to language models.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal, text only and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface in
// sub-packages so higher layers remain decoupled from vendor SDKs.
package model
