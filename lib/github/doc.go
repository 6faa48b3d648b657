// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package github is a typed GitHub REST API client for corral's remote
// collaboration needs: listing an organization's source repositories,
// managing the operator's forks, and opening and querying pull
// requests.
//
// The client handles authentication, preemptive rate-limit waiting with
// one retry on rate-limited responses, ETag conditional GETs, and
// pagination. Errors from the API surface as *APIError with the status
// code and GitHub's structured error body.
package github
