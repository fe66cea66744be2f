// Package catalog loads and validates the product input file.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"covergen/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Covers are written as covers/{product_id}_cover.png.
	_ = v.RegisterValidation("product_id", func(fl validator.FieldLevel) bool {
		return domain.ValidProductID(fl.Field().String())
	})
	return v
}

// LoadProducts reads a JSON array of products. A missing file is reported
// as domain.ErrMissingResource; an invalid record as domain.ErrInvalidProduct.
func LoadProducts(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: input file %s", domain.ErrMissingResource, path)
		}
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseProducts(data)
}

// ParseProducts decodes and validates raw catalog JSON.
func ParseProducts(data []byte) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	seen := make(map[string]int, len(products))
	for i := range products {
		p := &products[i]
		p.ProductID = strings.TrimSpace(p.ProductID)
		p.Name = strings.TrimSpace(p.Name)
		p.Tone = strings.TrimSpace(p.Tone)
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: record %d: %s", domain.ErrInvalidProduct, i, describe(err))
		}
		if prev, ok := seen[p.ProductID]; ok {
			return nil, fmt.Errorf("%w: record %d repeats product_id %q from record %d", domain.ErrInvalidProduct, i, p.ProductID, prev)
		}
		seen[p.ProductID] = i
	}
	return products, nil
}

func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}
