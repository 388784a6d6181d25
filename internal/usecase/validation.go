package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

const (
	maxBuyerNameLen       = 150
	maxBuyerPhoneLen      = 20
	maxBuyerAddressLen    = 255
	maxBuyerNotesLen      = 1000
	maxProductNameLen     = 150
	maxProductCategoryLen = 100
	maxDescriptionLen     = 5000
	maxVerifyNotesLen     = 1000
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Upload is an image received from a client.
type Upload struct {
	Data []byte
}

// CartLine is one {product, quantity} pair submitted at checkout.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// cartLine is a merged cart line remembering where it first appeared.
type cartLine struct {
	CartLine
	index int
}

func checkText(verr *domainErrors.ValidationError, field, value string, maxLen int, required bool) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "" && required:
		verr.Add(field, "is required")
	case utf8.RuneCountInString(value) > maxLen:
		verr.Add(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return value
}

func validateBuyer(verr *domainErrors.ValidationError, b model.Buyer) model.Buyer {
	return model.Buyer{
		Name:    checkText(verr, "buyer.name", b.Name, maxBuyerNameLen, true),
		Phone:   checkText(verr, "buyer.phone", b.Phone, maxBuyerPhoneLen, true),
		Address: checkText(verr, "buyer.address", b.Address, maxBuyerAddressLen, true),
		Notes:   checkText(verr, "buyer.notes", b.Notes, maxBuyerNotesLen, false),
	}
}

// mergeCart folds repeated products into one line and orders lines by
// product id so concurrent checkouts lock stock rows in the same order.
func mergeCart(verr *domainErrors.ValidationError, lines []CartLine) []cartLine {
	if len(lines) == 0 {
		verr.Add("items", "must contain at least one product")
		return nil
	}
	merged := make(map[int64]*cartLine, len(lines))
	for i, line := range lines {
		if line.ProductID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].product_id", i), "must be positive")
			continue
		}
		if line.Quantity < 1 {
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
			continue
		}
		if existing, ok := merged[line.ProductID]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		merged[line.ProductID] = &cartLine{CartLine: line, index: i}
	}
	out := make([]cartLine, 0, len(merged))
	for _, line := range merged {
		out = append(out, *line)
	}
	slices.SortFunc(out, func(a, b cartLine) int { return cmp.Compare(a.ProductID, b.ProductID) })
	return out
}

// checkImage validates an upload and returns its detected content type.
// The type is sniffed from the bytes; client supplied headers are ignored.
func checkImage(verr *domainErrors.ValidationError, field string, upload *Upload, maxBytes int64) string {
	if len(upload.Data) == 0 {
		verr.Add(field, "is empty")
		return ""
	}
	if maxBytes > 0 && int64(len(upload.Data)) > maxBytes {
		verr.Add(field, fmt.Sprintf("must be at most %d bytes", maxBytes))
		return ""
	}
	detected := mimetype.Detect(upload.Data)
	for _, t := range imageTypes {
		if detected.Is(t) {
			return t
		}
	}
	verr.Add(field, "must be a jpeg, png, gif or webp image")
	return ""
}

func validateProduct(verr *domainErrors.ValidationError, in ProductInput) ProductInput {
	in.Name = checkText(verr, "name", in.Name, maxProductNameLen, true)
	in.Category = checkText(verr, "category", in.Category, maxProductCategoryLen, true)
	in.Description = checkText(verr, "description", in.Description, maxDescriptionLen, false)
	if in.Price < 0 {
		verr.Add("price", "must not be negative")
	}
	if in.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}
	return in
}
