// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors returned by the stores. Handlers map them to HTTP status
// codes with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrSlugTaken       = errors.New("slug already exists")
	ErrCategoryInUse   = errors.New("category is referenced by posts")
	ErrInvalidCategory = errors.New("invalid category_id")
)

// PostgreSQL SQLSTATE codes we translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE code and constraint name of a PostgreSQL
// error, or empty strings if err did not come from the server.
func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// escapeLike escapes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '\\', '%', '_':
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
