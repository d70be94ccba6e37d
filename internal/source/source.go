// Package source selects the configured Source Reader.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/buylist/internal/config"
	"github.com/m3rciful/buylist/internal/shoplist"
	"github.com/m3rciful/buylist/internal/source/filelist"
	"github.com/m3rciful/buylist/internal/source/s3list"
	"github.com/m3rciful/buylist/internal/source/sheets"
	"github.com/m3rciful/buylist/internal/source/sqlstore"
)

// Open builds the reader named by cfg.Source.Driver. db is only used by the
// db driver and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, db *sqlx.DB) (shoplist.Source, error) {
	if cfg == nil {
		return nil, errors.New("source: nil config")
	}
	src := cfg.Source
	switch src.Driver {
	case config.SourceFile, "":
		return filelist.New(src.File.ItemsPath, src.File.UsersPath), nil
	case config.SourceSheets:
		r, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   src.Sheets.SpreadsheetID,
			CredentialsFile: src.Sheets.CredentialsFile,
			HeaderRows:      src.Sheets.HeaderRows,
			Endpoint:        src.Sheets.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.SourceS3:
		r, err := s3list.New(ctx, s3list.Config{
			Bucket:    src.S3.Bucket,
			ItemsKey:  src.S3.ItemsKey,
			UsersKey:  src.S3.UsersKey,
			Region:    src.S3.Region,
			Endpoint:  src.S3.Endpoint,
			PathStyle: src.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.SourceDB:
		if db == nil {
			return nil, errors.New("source: db driver needs an open database")
		}
		s, err := sqlstore.New(db)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("source: unknown driver %q", src.Driver)
	}
}
