package domain

import "time"

const EstimatedDeliveryOffset = 5 * 24 * time.Hour

type TimelineStage struct {
	Status    OrderStatus `json:"status"`
	Label     string      `json:"label"`
	Completed bool        `json:"completed"`
	Date      *time.Time  `json:"date"`
}

type Timeline struct {
	OrderNumber       string          `json:"orderNumber"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	Cancelled         bool            `json:"cancelled"`
	Stages            []TimelineStage `json:"timeline"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

var timelineStages = []struct {
	status OrderStatus
	label  string
}{
	{StatusPending, "Order placed"},
	{StatusProcessing, "Processing"},
	{StatusShipped, "Shipped"},
	{StatusDelivered, "Delivered"},
}

// BuildTimeline derives the tracking view from the order's current status.
// Only the stage equal to the current status carries the update time; stages
// the order moved past have no date. PENDING always shows the creation time.
// A cancelled order has only the first stage completed.
func BuildTimeline(o *Order) Timeline {
	current := o.Status.rank()
	cancelled := o.Status == StatusCancelled

	stages := make([]TimelineStage, 0, len(timelineStages))
	for i, s := range timelineStages {
		stage := TimelineStage{
			Status:    s.status,
			Label:     s.label,
			Completed: current >= i || (cancelled && i == 0),
		}
		switch {
		case s.status == StatusPending:
			created := o.CreatedAt
			stage.Date = &created
		case s.status == o.Status:
			updated := o.UpdatedAt
			stage.Date = &updated
		}
		stages = append(stages, stage)
	}

	return Timeline{
		OrderNumber:       o.OrderNumber,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		Cancelled:         cancelled,
		Stages:            stages,
		EstimatedDelivery: o.CreatedAt.Add(EstimatedDeliveryOffset),
	}
}
