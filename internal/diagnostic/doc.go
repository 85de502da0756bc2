// Package diagnostic provides structured, recoverable findings reported while
// inferring model usage.
//
// Nothing in here aborts an analysis: a diagnostic records why a call
// contributed no usage (unresolved receiver, unknown association, ...) together
// with the source position, the expression text and its static type, so that
// the operator can fix the registry or the code.
package diagnostic
