// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; repositories convert through the
// ToDomain / FromDomain mappers defined next to each model.
//
// Files:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - identity.go: users, contacts
//   - catalog.go: shops, categories, products, product_infos, parameters
//   - trade.go: orders, order_items
//   - notification.go: notification_tasks
package models
