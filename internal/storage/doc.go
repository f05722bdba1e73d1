// Package storage provides an optional delivery-history store.
//
// Each reminder send attempt is recorded as one DeliveryRecord. The store
// only covers operational history; subscription state itself is in-memory
// and not persisted.
package storage
