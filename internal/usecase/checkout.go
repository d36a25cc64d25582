package usecase

import (
	"context"
	"fmt"
	"net/http"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 決済プロバイダに渡す1明細。金額はマイナー単位（セント）。
type CheckoutLine struct {
	Name        string
	Description string
	ImageURL    string
	UnitAmount  int64
	Quantity    int64
}

type CheckoutSessionInput struct {
	Lines         []CheckoutLine
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// ホスト型チェックアウトのセッションを作ってリダイレクトURLを返す約束。
type CheckoutGateway interface {
	CreateSession(ctx context.Context, in CheckoutSessionInput) (string, error)
}

// 検証済みカート行を決済セッションに変換する。
type CheckoutSessionBuilder struct {
	gateway    CheckoutGateway
	currency   string
	successURL string
	cancelURL  string
	publicURL  string
}

// DI
func NewCheckoutSessionBuilder(
	gateway CheckoutGateway,
	currency string,
	successURL string,
	cancelURL string,
	publicURL string,
) *CheckoutSessionBuilder {
	return &CheckoutSessionBuilder{
		gateway:    gateway,
		currency:   currency,
		successURL: successURL,
		cancelURL:  cancelURL,
		publicURL:  publicURL,
	}
}

var minorUnitFactor = decimal.NewFromInt(100)

// price×100をプロバイダの数値契約どおり丸める。
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(minorUnitFactor).Round(0).IntPart()
}

// ゲスト決済用の画像URL。保存ファイルをこのAPI経由で配る絶対URL。
func (b *CheckoutSessionBuilder) imageURL(p model.Product) string {
	if p.ImageID == nil {
		return ""
	}
	return fmt.Sprintf("%s/files/%d", b.publicURL, *p.ImageID)
}

// 明細からセッションを作成してリダイレクトURLを返す。
// withImagesはゲスト決済のときだけtrue。
func (b *CheckoutSessionBuilder) Create(ctx context.Context, items []ResolvedLine, customerEmail string, withImages bool) (string, error) {
	lines := make([]CheckoutLine, 0, len(items))
	for _, it := range items {
		line := CheckoutLine{
			Name:        it.Product.Name,
			Description: it.Product.Description,
			UnitAmount:  toMinorUnits(it.Product.Price),
			Quantity:    it.Quantity,
		}
		if withImages {
			line.ImageURL = b.imageURL(it.Product)
		}
		lines = append(lines, line)
	}

	url, err := b.gateway.CreateSession(ctx, CheckoutSessionInput{
		Lines:         lines,
		Currency:      b.currency,
		CustomerEmail: customerEmail,
		SuccessURL:    b.successURL,
		CancelURL:     b.cancelURL,
	})
	if err != nil {
		//プロバイダ側の失敗。詳細は返さずログだけに出す
		return "", NewHTTPError(http.StatusInternalServerError, "payment", "payment provider error")
	}
	return url, nil
}
