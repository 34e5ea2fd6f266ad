package simulator

import "github.com/chrisdamba/ridersim/internal/models"

// OrderQueue is the FIFO of orders waiting for a rider. It belongs to a single
// run and is not safe for concurrent use.
type OrderQueue struct {
	orders []*models.Order
	head   int
}

func NewOrderQueue() *OrderQueue {
	return &OrderQueue{orders: make([]*models.Order, 0)}
}

// Enqueue adds an order to the back of the queue.
func (q *OrderQueue) Enqueue(order *models.Order) {
	q.orders = append(q.orders, order)
}

// Dequeue removes and returns the oldest order, or nil if the queue is empty.
func (q *OrderQueue) Dequeue() *models.Order {
	if q.head == len(q.orders) {
		return nil
	}
	order := q.orders[q.head]
	q.orders[q.head] = nil
	q.head++
	// reclaim the consumed prefix once it dominates the backing array
	if q.head > 64 && q.head*2 > len(q.orders) {
		q.orders = append(q.orders[:0], q.orders[q.head:]...)
		q.head = 0
	}
	return order
}

// Peek returns the oldest order without removing it.
func (q *OrderQueue) Peek() *models.Order {
	if q.head == len(q.orders) {
		return nil
	}
	return q.orders[q.head]
}

func (q *OrderQueue) Len() int {
	return len(q.orders) - q.head
}

func (q *OrderQueue) IsEmpty() bool {
	return q.Len() == 0
}
