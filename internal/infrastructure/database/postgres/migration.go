// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/shop-backend/internal/domain/customer"
	"github.com/your-org/shop-backend/internal/domain/product"
	"github.com/your-org/shop-backend/internal/domain/repair"
	"github.com/your-org/shop-backend/internal/domain/sales"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order; sales references products and customers.
	models := []interface{}{
		&customer.Customer{},
		&product.Product{},
		&repair.RepairOrder{},
		&sales.Sale{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)",
		"CREATE INDEX IF NOT EXISTS idx_customers_contact_number ON customers(contact_number)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_quantity ON products(quantity)",

		// Repair order indexes
		"CREATE INDEX IF NOT EXISTS idx_repair_orders_customer_status ON repair_orders(customer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_repair_orders_created_at ON repair_orders(created_at DESC)",

		// Sales ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_sale_number ON sales(sale_number)",
		"CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_product_created ON sales(product_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if err := m.seedTestCustomers(); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedTestProducts creates a small starter inventory for development
func (m *Migration) seedTestProducts() error {
	log.Println("🛍️ Seeding test products...")

	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("⏭️ Products already exist")
		return nil
	}

	testProducts := []product.Product{
		{
			Name:              "Phone Charger",
			UnitPrice:         150000, // Rs 1500.00
			Quantity:          40,
			LowStockThreshold: 10,
		},
		{
			Name:              "Replacement Battery",
			UnitPrice:         300000, // Rs 3000.00
			Quantity:          25,
			LowStockThreshold: 5,
		},
		{
			Name:              "Tempered Glass",
			UnitPrice:         50000, // Rs 500.00
			Quantity:          100,
			LowStockThreshold: 20,
		},
		{
			Name:              "USB Cable",
			UnitPrice:         70000, // Rs 700.00
			Quantity:          60,
			LowStockThreshold: 15,
		},
	}

	for _, prod := range testProducts {
		if err := m.db.Create(&prod).Error; err != nil {
			log.Printf("⚠️ Failed to create test product %s: %v", prod.Name, err)
		} else {
			log.Printf("✅ Created test product: %s", prod.Name)
		}
	}

	return nil
}

// seedTestCustomers creates sample customers for development
func (m *Migration) seedTestCustomers() error {
	log.Println("👤 Seeding test customers...")

	var customerCount int64
	m.db.Model(&customer.Customer{}).Count(&customerCount)
	if customerCount > 0 {
		log.Println("⏭️ Customers already exist")
		return nil
	}

	testCustomers := []customer.Customer{
		{Name: "Asha Perera", ContactNumber: "0771234567", Address: "12 Temple Road, Kandy"},
		{Name: "Nimal Silva", ContactNumber: "0719876543", Address: "45 Lake View, Colombo"},
	}

	for _, c := range testCustomers {
		if err := m.db.Create(&c).Error; err != nil {
			log.Printf("⚠️ Failed to create test customer %s: %v", c.Name, err)
		} else {
			log.Printf("✅ Created test customer: %s", c.Name)
		}
	}

	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"sales",
		"repair_orders",
		"products",
		"customers",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}
