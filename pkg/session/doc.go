/*
Package session orchestrates concurrent access to persisted interactive
sessions.

A Manager serializes operations per session ID with reference-counted local
locks, optionally layered with a distributed lock so multiple replicas can
share one session store.
*/
package session
