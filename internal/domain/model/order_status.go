package model

// 注文のライフサイクル。
type OrderStatus string

const (
	OrderStatusCreated           OrderStatus = "Created"
	OrderStatusSuccessfulPayment OrderStatus = "SuccessfulPayment"
	OrderStatusPaymentError      OrderStatus = "PaymentError"
	OrderStatusReadyToPick       OrderStatus = "ReadyToPick"
	OrderStatusOnTheWay          OrderStatus = "OnTheWay"
)

// 許可される遷移だけを持つ。書き込み時に必ずチェックする。
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCreated:           {OrderStatusSuccessfulPayment, OrderStatusPaymentError},
	OrderStatusPaymentError:      {OrderStatusSuccessfulPayment},
	OrderStatusSuccessfulPayment: {OrderStatusReadyToPick},
	OrderStatusReadyToPick:       {OrderStatusOnTheWay},
	OrderStatusOnTheWay:          {},
}

// 既知のステータスかどうか。
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// sからnextへ進めるか。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
