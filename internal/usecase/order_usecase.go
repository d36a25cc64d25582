package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// クライアントのカート1行。
type CartLineInput struct {
	ProductID int64 `json:"productId"`
	Amount    int64 `json:"amount"`
}

// カタログに解決できた行。
type ResolvedLine struct {
	Product  model.Product
	Quantity int64
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	orders   repo.OrderRepository
	users    repo.UserRepository
	checkout *CheckoutSessionBuilder
	//trueなら未知のproductIdで即エラー。falseなら黙って落とす
	strictCart bool
	publicURL  string
}

// DI
func NewOrderUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	users repo.UserRepository,
	checkout *CheckoutSessionBuilder,
	strictCart bool,
	publicURL string,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		products:   products,
		orders:     orders,
		users:      users,
		checkout:   checkout,
		strictCart: strictCart,
		publicURL:  publicURL,
	}
}

type ProductInOrderOutput struct {
	ID      int64              `json:"id"`
	OrderID int64              `json:"order_id"`
	Product SmallProductOutput `json:"product"`
	Amount  int64              `json:"amount"`
}

type OrderOutput struct {
	ID         int64                  `json:"id"`
	Comment    string                 `json:"comment"`
	TotalPrice decimal.Decimal        `json:"total_price"`
	CreatedAt  time.Time              `json:"created_at"`
	UserID     int64                  `json:"user_id"`
	Status     string                 `json:"status"`
	Products   []ProductInOrderOutput `json:"products"`
}

// resolveCartLinesはカートをカタログに解決する。
// 同じproductIdが2回来たら最初のamountが勝つ。
// 未知のIDはstrictCartでない限り黙って落とす（古いクライアントカートに寛容）。
func (u *OrderUsecase) resolveCartLines(ctx context.Context, products repo.ProductRepository, lines []CartLineInput) ([]ResolvedLine, error) {
	//最初の出現だけを残す
	amounts := make(map[int64]int64, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, seen := amounts[line.ProductID]; seen {
			continue
		}
		amounts[line.ProductID] = line.Amount
		ids = append(ids, line.ProductID)
	}

	//1回の一括取得で解決する
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	byID := make(map[int64]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	resolved := make([]ResolvedLine, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			if u.strictCart {
				return nil, NewHTTPError(http.StatusBadRequest, "productId", "unknown productId")
			}
			continue
		}
		resolved = append(resolved, ResolvedLine{Product: p, Quantity: amounts[id]})
	}

	return resolved, nil
}

// Createは認証済みユーザーの注文を作る。注文＋明細で1トランザクション。
func (u *OrderUsecase) Create(ctx context.Context, userID int64, lines []CartLineInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "user", "user session had been expired")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		resolved, err := u.resolveCartLines(ctx, r.Products(), lines)
		if err != nil {
			return err
		}

		items := make([]model.ProductInOrder, 0, len(resolved))
		total := decimal.Zero
		for _, line := range resolved {
			items = append(items, model.ProductInOrder{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
			})
			total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		order := model.Order{
			UserID:     userID,
			Status:     model.OrderStatusCreated,
			TotalPrice: total,
			Comment:    "",
			CreatedAt:  time.Now().UTC(),
		}

		created, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}

		//明細は同じTxの中でまとめてINSERTする
		if err := r.OrderItems().CreateBulk(ctx, created.ID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db", "db error")
		}

		//保存した明細に商品を付け直して射影する
		for i := range items {
			p := resolved[i].Product
			items[i].Product = &p
		}
		created.Items = items
		out = u.toOrderOutput(created)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// GetByIDは自分の注文だけ返す。他人の注文は「存在しない扱い」。
func (u *OrderUsecase) GetByID(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "user", "user session had been expired")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}
	if o.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId")
	}

	return u.toOrderOutput(o), nil
}

// Paymentは既存注文の決済セッションを作ってリダイレクトURLを返す。
// ローカル状態の検証が全部通るまでプロバイダは呼ばない。
func (u *OrderUsecase) Payment(ctx context.Context, userID int64, orderID int64) (string, error) {
	if userID <= 0 {
		return "", NewHTTPError(http.StatusUnauthorized, "user", "user session had been expired")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound || user == nil {
		return "", NewHTTPError(http.StatusUnauthorized, "user", "user session had been expired")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	order, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return "", NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}
	if order.UserID != userID {
		return "", NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId")
	}

	items := make([]ResolvedLine, 0, len(order.Items))
	for _, it := range order.Items {
		if it.Product == nil {
			continue
		}
		items = append(items, ResolvedLine{Product: *it.Product, Quantity: it.Quantity})
	}

	return u.checkout.Create(ctx, items, user.Email, false)
}

// PaymentFromCartはゲスト決済。Orderは一切作らず、その場の明細だけで
// セッションを組む（画像URLつき）。
func (u *OrderUsecase) PaymentFromCart(ctx context.Context, lines []CartLineInput) (string, error) {
	resolved, err := u.resolveCartLines(ctx, u.products, lines)
	if err != nil {
		return "", err
	}

	return u.checkout.Create(ctx, resolved, "", true)
}

// UpdateStatusは遷移表に照らしてからステータスを書く。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, next model.OrderStatus) (OrderOutput, error) {
	if !next.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "status", "unknown status")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "orderId", "order does not exist or invalid orderId")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	if !o.Status.CanTransitionTo(next) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "status", "illegal status transition")
	}

	if err := u.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db", "db error")
	}

	o.Status = next
	return u.toOrderOutput(o), nil
}

func (u *OrderUsecase) toOrderOutput(o model.Order) OrderOutput {
	items := make([]ProductInOrderOutput, 0, len(o.Items))
	for _, it := range o.Items {
		po := ProductInOrderOutput{
			ID:      it.ID,
			OrderID: it.OrderID,
			Amount:  it.Quantity,
		}
		if it.Product != nil {
			po.Product = toSmallProductOutput(*it.Product, u.publicURL)
		}
		items = append(items, po)
	}

	return OrderOutput{
		ID:         o.ID,
		Comment:    o.Comment,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UserID:     o.UserID,
		Status:     o.Status.String(),
		Products:   items,
	}
}
