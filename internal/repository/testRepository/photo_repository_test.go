package testRepository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlog/internal/models"
	"buildlog/internal/repository"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock
}

func pickerPhoto(id string) models.Photo {
	return models.Photo{
		PhotoID:      id,
		SourceID:     "gphotos-" + id,
		URL:          "https://photos.example/" + id,
		ThumbnailURL: "https://photos.example/" + id + "/thumb",
		TakenAt:      time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		Filename:     id + ".jpg",
	}
}

func TestNewPhotoRepository(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := repository.NewPhotoRepository(db)

	assert.NotNil(t, repo)
}

func TestPhotoRepositoryImpl_AddBatch(t *testing.T) {
	tests := []struct {
		name        string
		photos      []models.Photo
		setupMock   func(mock sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name:   "batch of two commits together",
			photos: []models.Photo{pickerPhoto("p1"), pickerPhoto("p2")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO photos`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO photos`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:      "empty batch touches nothing",
			photos:    []models.Photo{},
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
		{
			name:   "failed insert rolls the batch back",
			photos: []models.Photo{pickerPhoto("p1"), pickerPhoto("p2")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO photos`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO photos`).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := repository.NewPhotoRepository(db)
			tt.setupMock(mock)

			err := repo.AddBatch(context.Background(), tt.photos)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPhotoRepositoryImpl_Assign(t *testing.T) {
	existsQuery := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM builds WHERE build_id = $1)`)
	assignQuery := regexp.QuoteMeta(`UPDATE photos SET build_id = $1 WHERE photo_id = $2`)
	touchQuery := regexp.QuoteMeta(`UPDATE builds SET updated_at = $1 WHERE build_id = $2`)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "photo and build change together",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(existsQuery).
					WithArgs("b1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectExec(assignQuery).
					WithArgs("b1", "p1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(touchQuery).
					WithArgs(sqlmock.AnyArg(), "b1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "missing build aborts before touching the photo",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(existsQuery).
					WithArgs("b1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectRollback()
			},
			wantErr: repository.ErrBuildNotFound,
		},
		{
			name: "missing photo rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(existsQuery).
					WithArgs("b1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectExec(assignQuery).
					WithArgs("b1", "p1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: repository.ErrPhotoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := repository.NewPhotoRepository(db)
			tt.setupMock(mock)

			err := repo.Assign(context.Background(), "p1", "b1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPhotoRepositoryImpl_Unassign(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewPhotoRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT build_id FROM photos WHERE photo_id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"build_id"}).AddRow("b1"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE photos SET build_id = NULL WHERE photo_id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE builds SET updated_at = $1 WHERE build_id = $2`)).
		WithArgs(sqlmock.AnyArg(), "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Unassign(context.Background(), "p1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepositoryImpl_BulkAssign(t *testing.T) {
	existsQuery := regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM builds WHERE build_id = $1)`)
	assignQuery := regexp.QuoteMeta(`UPDATE photos SET build_id = $1 WHERE photo_id = $2`)

	t.Run("whole batch lands in one transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		for _, photoID := range []string{"p1", "p2", "p3"} {
			mock.ExpectQuery(existsQuery).
				WithArgs("b1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			mock.ExpectExec(assignQuery).
				WithArgs("b1", photoID).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE builds SET updated_at = $1 WHERE build_id = $2`)).
			WithArgs(sqlmock.AnyArg(), "b1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.BulkAssign(context.Background(), []string{"p1", "p2", "p3"}, "b1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing build leaves everything unchanged", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(existsQuery).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := repo.BulkAssign(context.Background(), []string{"p1", "p2", "p3"}, "ghost")

		assert.ErrorIs(t, err, repository.ErrBuildNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one missing photo rolls back the whole batch", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(existsQuery).
			WithArgs("b1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(assignQuery).
			WithArgs("b1", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(existsQuery).
			WithArgs("b1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(assignQuery).
			WithArgs("b1", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.BulkAssign(context.Background(), []string{"p1", "ghost", "p3"}, "b1")

		assert.ErrorIs(t, err, repository.ErrPhotoNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPhotoRepositoryImpl_Delete(t *testing.T) {
	t.Run("assigned photo refreshes its former build", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT build_id FROM photos WHERE photo_id = $1`)).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"build_id"}).AddRow("b1"))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM photos WHERE photo_id = $1`)).
			WithArgs("p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE builds SET updated_at = $1 WHERE build_id = $2`)).
			WithArgs(sqlmock.AnyArg(), "b1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), "p1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unassigned photo skips the build touch", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT build_id FROM photos WHERE photo_id = $1`)).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"build_id"}).AddRow(nil))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM photos WHERE photo_id = $1`)).
			WithArgs("p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), "p1")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing photo yields ErrPhotoNotFound", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT build_id FROM photos WHERE photo_id = $1`)).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"build_id"}))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), "ghost")

		assert.ErrorIs(t, err, repository.ErrPhotoNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPhotoRepositoryImpl_Filter(t *testing.T) {
	photoColumns := []string{"photo_id", "source_id", "url", "thumbnail_url", "taken_at", "filename", "build_id", "caption", "scheduled_date", "posted", "width", "height", "camera_make", "camera_model", "created_at"}
	now := time.Now()

	t.Run("conjunction of criteria", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM photos WHERE build_id IS NULL AND taken_at >= $1 AND posted = $2 ORDER BY taken_at DESC`)).
			WithArgs(now, false).
			WillReturnRows(sqlmock.NewRows(photoColumns).
				AddRow("p1", "s1", "u", "t", now, "img1.jpg", nil, nil, nil, false, nil, nil, nil, nil, now))

		assigned := false
		posted := false
		photos, err := repo.Filter(context.Background(), repository.PhotoFilter{
			Assigned:   &assigned,
			TakenAfter: &now,
			Posted:     &posted,
		})

		require.NoError(t, err)
		require.Len(t, photos, 1)
		assert.Equal(t, "img1.jpg", photos[0].Filename)
	})

	t.Run("no criteria lists everything", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPhotoRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM photos ORDER BY taken_at DESC`)).
			WillReturnRows(sqlmock.NewRows(photoColumns))

		photos, err := repo.Filter(context.Background(), repository.PhotoFilter{})

		require.NoError(t, err)
		assert.Empty(t, photos)
	})
}
