// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package models defines the Book Wise REST resources mirrored by the web
frontends.

The frontends never own authoritative state. Every type here is decoded from
an API response (or encoded into an API request) and may be held for a short
time in the result cache.

Resources:
  - Admin, User: platform users, with closed Status and Role enumerations
  - Author, AuthorLite: book authors
  - Book, PublishedBook, ExternalBook: library, portal and catalog views of a book
  - Evaluation: a member's rating and review of a book
  - Category: a book category
  - Page[T]: the server's pagination envelope {data, total, totalPages, page, limit}

Request payloads (CreateAdminPayload, CreateBookPayload, ...) carry
go-playground/validator tags and are validated before they are sent.
*/
package models
