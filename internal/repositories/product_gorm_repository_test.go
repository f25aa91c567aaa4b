package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"gerenciador/internal/database"
	"gerenciador/internal/models"
	"gerenciador/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGORMRepository(t *testing.T) repositories.ProductRepository {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	require.NoError(t, err)
	return repositories.NewGORMProductRepository(db)
}

func newProduct(name string) *models.Product {
	return &models.Product{
		Name:             name,
		Price:            19.9,
		Quantity:         4,
		ExpirationDate:   time.Date(2030, time.January, 2, 0, 0, 0, 0, time.UTC),
		Image:            []byte("GIF89a-image"),
		ImageContentType: "image/gif",
	}
}

// repositoryContract runs the behaviour every ProductRepository must share.
func repositoryContract(t *testing.T, newRepo func(t *testing.T) repositories.ProductRepository) {
	t.Run("create assigns id", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Caneta azul")
		p.ID = 77

		require.NoError(t, repo.Create(p))
		assert.NotZero(t, p.ID)
		assert.NotEqual(t, uint(77), p.ID)

		stored, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Caneta azul", stored.Name)
		assert.Equal(t, 19.9, stored.Price)
		assert.Equal(t, int64(4), stored.Quantity)
		assert.True(t, p.ExpirationDate.Equal(stored.ExpirationDate))
		assert.Equal(t, []byte("GIF89a-image"), stored.Image)
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		product, err := repo.GetByID(123)
		assert.Nil(t, product)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})

	t.Run("get all filters by name ignoring case", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"Caneta azul", "Caderno", "CANETA preta"} {
			require.NoError(t, repo.Create(newProduct(name)))
		}

		all, err := repo.GetAll("")
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Caneta azul", all[0].Name)
		assert.Equal(t, "CANETA preta", all[2].Name)

		pens, err := repo.GetAll("caneta")
		require.NoError(t, err)
		assert.Len(t, pens, 2)

		none, err := repo.GetAll("lápis")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("get all matches wildcards literally", func(t *testing.T) {
		repo := newRepo(t)
		for _, name := range []string{"Caneta azul", "Desconto 50%", "Caderno"} {
			require.NoError(t, repo.Create(newProduct(name)))
		}

		percent, err := repo.GetAll("%")
		require.NoError(t, err)
		require.Len(t, percent, 1)
		assert.Equal(t, "Desconto 50%", percent[0].Name)

		underscore, err := repo.GetAll("_")
		require.NoError(t, err)
		assert.Empty(t, underscore)

		backslash, err := repo.GetAll(`\`)
		require.NoError(t, err)
		assert.Empty(t, backslash)
	})

	t.Run("update refreshes updated at", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Caderno")
		require.NoError(t, repo.Create(p))
		created, err := repo.GetByID(p.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		update := newProduct("Caderno grande")
		update.ID = p.ID
		update.Image = nil
		require.NoError(t, repo.Update(update))

		stored, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.True(t, stored.UpdatedAt.After(created.UpdatedAt),
			"updated_at %v should be after %v", stored.UpdatedAt, created.UpdatedAt)
	})

	t.Run("update keeps image when none is given", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Caderno")
		require.NoError(t, repo.Create(p))

		update := &models.Product{
			ID:             p.ID,
			Name:           "Caderno grande",
			Price:          25,
			Quantity:       0,
			ExpirationDate: p.ExpirationDate.AddDate(0, 1, 0),
		}
		require.NoError(t, repo.Update(update))

		stored, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Caderno grande", stored.Name)
		assert.Equal(t, float64(25), stored.Price)
		assert.Equal(t, int64(0), stored.Quantity)
		assert.Equal(t, []byte("GIF89a-image"), stored.Image)
		assert.Equal(t, "image/gif", stored.ImageContentType)
	})

	t.Run("update replaces image when given", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Caderno")
		require.NoError(t, repo.Create(p))

		update := newProduct("Caderno")
		update.ID = p.ID
		update.Image = []byte("\x89PNG")
		update.ImageContentType = "image/png"
		require.NoError(t, repo.Update(update))

		stored, err := repo.GetByID(p.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("\x89PNG"), stored.Image)
		assert.Equal(t, "image/png", stored.ImageContentType)
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Fantasma")
		p.ID = 404
		assert.ErrorIs(t, repo.Update(p), models.ErrProductNotFound)

		all, err := repo.GetAll("")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		p := newProduct("Caderno")
		require.NoError(t, repo.Create(p))

		require.NoError(t, repo.Delete(p.ID))
		_, err := repo.GetByID(p.ID)
		assert.ErrorIs(t, err, models.ErrProductNotFound)

		assert.ErrorIs(t, repo.Delete(p.ID), models.ErrProductNotFound)
	})
}

func TestGORMProductRepository(t *testing.T) {
	repositoryContract(t, newGORMRepository)
}

func TestMockProductRepository(t *testing.T) {
	repositoryContract(t, func(t *testing.T) repositories.ProductRepository {
		return repositories.NewMockProductRepository()
	})
}
