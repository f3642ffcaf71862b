package database

// Catalog queries
const (
	SelectMenuItemsSQL = `
		SELECT item_id, item_name, price::text, prep_time_per_unit, shop_id
		FROM menu_items
		WHERE shop_id = $1 AND item_id = ANY($2)`

	SelectShopMenuSQL = `
		SELECT mi.item_id, mi.item_name, mi.price::text, mi.prep_time_per_unit, mi.shop_id, i.quantity
		FROM menu_items mi
		LEFT JOIN inventory i ON i.item_id = mi.item_id
		WHERE mi.shop_id = $1
		ORDER BY mi.item_name`

	ShopExistsSQL = `SELECT EXISTS(SELECT 1 FROM shops WHERE shop_id = $1)`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (order_id, order_time, status, total_quantity, customer_id, shop_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	InsertOrderLineSQL = `
		INSERT INTO order_lines (order_id, item_id, quantity)
		VALUES ($1, $2, $3)`

	InsertPaymentSQL = `
		INSERT INTO payments (payment_id, paid_at, mode, status, order_id)
		VALUES ($1, $2, $3, $4, $5)`

	InsertPreparationSQL = `
		INSERT INTO preparation_records (prep_id, status, start_time, end_time, order_id)
		VALUES ($1, $2, $3, NULL, $4)`

	CompleteOrderSQL = `
		UPDATE orders SET status = $2
		WHERE order_id = $1
		RETURNING customer_id, shop_id`
)

// Kitchen queries
const (
	// MarkReadySQL only matches a record still in $4 (Preparing), so a
	// second transition affects no rows.
	MarkReadySQL = `
		UPDATE preparation_records pr SET status = $2, end_time = $3
		FROM orders o
		WHERE pr.prep_id = $1 AND pr.status = $4 AND o.order_id = pr.order_id
		RETURNING pr.order_id, o.customer_id, o.shop_id`

	PreparationStatusSQL = `SELECT status FROM preparation_records WHERE prep_id = $1`

	ActiveOrdersSQL = `
		SELECT o.order_id, o.order_time, o.total_quantity, o.customer_id, s.shop_name, s.shop_id,
			pr.prep_id, pr.status, pr.start_time,
			COALESCE(string_agg(mi.item_name || ' x' || ol.quantity, ', ' ORDER BY mi.item_name), '')
		FROM orders o
		JOIN shops s ON s.shop_id = o.shop_id
		JOIN preparation_records pr ON pr.order_id = o.order_id
		LEFT JOIN order_lines ol ON ol.order_id = o.order_id
		LEFT JOIN menu_items mi ON mi.item_id = ol.item_id
		WHERE pr.status = 'Preparing' AND ($1::text = '' OR o.shop_id = $1::text)
		GROUP BY o.order_id, o.order_time, o.total_quantity, o.customer_id, s.shop_name, s.shop_id,
			pr.prep_id, pr.status, pr.start_time
		ORDER BY o.order_time ASC`
)

// Inventory queries
const (
	// ConsumeInventorySQL decrements only when enough stock is on hand.
	// RETURNING sees the new row, so the previous quantity is new + $2.
	ConsumeInventorySQL = `
		UPDATE inventory i SET quantity = i.quantity - $2, available = i.quantity - $2 > 0
		FROM menu_items mi
		WHERE i.item_id = $1 AND i.quantity >= $2 AND mi.item_id = i.item_id
		RETURNING mi.item_name, i.quantity + $2, i.quantity, i.reorder_level, i.unit`

	// LockInventoryQuantitySQL holds the row until the surrounding
	// transaction ends, so the quantity read stays current.
	LockInventoryQuantitySQL = `SELECT quantity FROM inventory WHERE item_id = $1 FOR UPDATE`

	InventoryStatusSQL = `
		SELECT i.item_id, mi.item_name, s.shop_name, i.quantity, i.unit, i.reorder_level,
			i.quantity <= i.reorder_level AS reorder_needed
		FROM inventory i
		JOIN menu_items mi ON mi.item_id = i.item_id
		JOIN shops s ON s.shop_id = mi.shop_id
		ORDER BY reorder_needed DESC, s.shop_name, mi.item_name`
)

// Tracking queries
const (
	CustomerOrdersSQL = `
		SELECT o.order_id, o.order_time, o.status, o.total_quantity, s.shop_name, s.location,
			pr.status, pr.start_time, pr.end_time, p.mode, p.status,
			COALESCE(string_agg(mi.item_name || ' x' || ol.quantity, ', ' ORDER BY mi.item_name), ''),
			COALESCE(SUM(mi.price * ol.quantity), 0)::text
		FROM orders o
		JOIN shops s ON s.shop_id = o.shop_id
		LEFT JOIN preparation_records pr ON pr.order_id = o.order_id
		LEFT JOIN payments p ON p.order_id = o.order_id
		LEFT JOIN order_lines ol ON ol.order_id = o.order_id
		LEFT JOIN menu_items mi ON mi.item_id = ol.item_id
		WHERE o.customer_id = $1 AND o.order_time >= $2
		GROUP BY o.order_id, o.order_time, o.status, o.total_quantity, s.shop_name, s.location,
			pr.status, pr.start_time, pr.end_time, p.mode, p.status
		ORDER BY o.order_time DESC`

	ReadyOrderIDsSQL = `
		SELECT o.order_id
		FROM orders o
		JOIN preparation_records pr ON pr.order_id = o.order_id
		WHERE o.customer_id = $1 AND o.order_time >= $2
			AND pr.status = 'Ready' AND o.status <> 'Completed'
		ORDER BY o.order_time DESC`
)
