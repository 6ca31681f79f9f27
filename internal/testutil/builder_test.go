package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenX(t *testing.T) {
	d := TokenX(t)
	require.Equal(t, "TokenX", d.Name())
	require.Equal(t, TokenXMetadata(), d.Snapshot())
}

func TestNewDeployed_Options(t *testing.T) {
	d := NewDeployed(t, "TokenY",
		ID("id-7"),
		Author("alice"), Author("bob"),
		Extra("network", "testnet"),
	)

	require.Equal(t, "id-7", d.ID())
	require.Equal(t, map[string]string{
		"author":    "bob",
		"validated": "true",
		"status":    "deployed",
		"network":   "testnet",
	}, d.Snapshot())
}

func TestNewDeployed_Minimal(t *testing.T) {
	d := NewDeployed(t, "Bare")
	require.Len(t, d.Snapshot(), 2)
}
