package database

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
)

// Datastore kinds.
const (
	KindSalesperson = "Salesperson"
	KindSale        = "Sale"
	KindRule        = "CommissionRule"
)

// datastore caps a single multi-op at 500 entities
const datastoreBatchSize = 500

// Money is stored as strings so decimals survive the round trip exactly.
type salespersonEntity struct {
	Name     string
	Email    string
	Phone    string `datastore:",noindex"`
	JoinedAt time.Time
}

type saleEntity struct {
	SalespersonID string
	Amount        string `datastore:",noindex"`
	SoldAt        time.Time
	Client        string `datastore:",noindex"`
	Product       string `datastore:",noindex"`
}

type ruleEntity struct {
	Minimum     string
	Maximum     string `datastore:",noindex"`
	Percentage  string `datastore:",noindex"`
	Description string `datastore:",noindex"`
}

// DatastoreClient wraps the cloud datastore client
type DatastoreClient struct {
	client *datastore.Client
}

// NewDatastoreClient dials Cloud Datastore for projectID. The emulator is
// picked up from DATASTORE_EMULATOR_HOST by the client library.
func NewDatastoreClient(ctx context.Context, projectID string) (*DatastoreClient, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return &DatastoreClient{client: client}, nil
}

// WrapDatastoreClient wraps existing datastore client
func WrapDatastoreClient(client *datastore.Client) *DatastoreClient {
	if client == nil {
		return nil
	}
	return &DatastoreClient{client: client}
}

// Close releases the underlying connection.
func (dc *DatastoreClient) Close() error {
	if dc == nil || dc.client == nil {
		return nil
	}
	return dc.client.Close()
}

func (dc *DatastoreClient) ready() error {
	if dc == nil || dc.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	return nil
}

// SaveSalesperson upserts a salesperson keyed by its id.
func (dc *DatastoreClient) SaveSalesperson(ctx context.Context, s *domain.Salesperson) error {
	if err := dc.ready(); err != nil {
		return err
	}
	e := salespersonEntity{Name: s.Name, Email: s.Email, Phone: s.Phone, JoinedAt: s.JoinedAt}
	_, err := dc.client.Put(ctx, datastore.NameKey(KindSalesperson, s.ID, nil), &e)
	return err
}

// SaveSale upserts a sale keyed by its id.
func (dc *DatastoreClient) SaveSale(ctx context.Context, s *domain.Sale) error {
	if err := dc.ready(); err != nil {
		return err
	}
	e := saleEntity{
		SalespersonID: s.SalespersonID,
		Amount:        s.Amount.String(),
		SoldAt:        s.Date,
		Client:        s.Client,
		Product:       s.Product,
	}
	_, err := dc.client.Put(ctx, datastore.NameKey(KindSale, s.ID, nil), &e)
	return err
}

// BatchSaveSales saves sales in chunks that respect the datastore batch limit.
func (dc *DatastoreClient) BatchSaveSales(ctx context.Context, sales []domain.Sale) error {
	if err := dc.ready(); err != nil {
		return err
	}

	for start := 0; start < len(sales); start += datastoreBatchSize {
		end := min(start+datastoreBatchSize, len(sales))
		chunk := sales[start:end]

		keys := make([]*datastore.Key, len(chunk))
		entities := make([]saleEntity, len(chunk))
		for i, s := range chunk {
			keys[i] = datastore.NameKey(KindSale, s.ID, nil)
			entities[i] = saleEntity{
				SalespersonID: s.SalespersonID,
				Amount:        s.Amount.String(),
				SoldAt:        s.Date,
				Client:        s.Client,
				Product:       s.Product,
			}
		}
		if _, err := dc.client.PutMulti(ctx, keys, entities); err != nil {
			return fmt.Errorf("put sales [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// SaveRule upserts a commission rule keyed by its id.
func (dc *DatastoreClient) SaveRule(ctx context.Context, r *domain.RateRule) error {
	if err := dc.ready(); err != nil {
		return err
	}
	e := ruleEntity{
		Minimum:     r.Minimum.String(),
		Maximum:     r.Maximum.String(),
		Percentage:  r.Percentage.String(),
		Description: r.Description,
	}
	_, err := dc.client.Put(ctx, datastore.NameKey(KindRule, r.ID, nil), &e)
	return err
}

// GetSalespeople returns every salesperson entity.
func (dc *DatastoreClient) GetSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	if err := dc.ready(); err != nil {
		return nil, err
	}

	var entities []salespersonEntity
	keys, err := dc.client.GetAll(ctx, datastore.NewQuery(KindSalesperson), &entities)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Salesperson, len(entities))
	for i, e := range entities {
		result[i] = domain.Salesperson{
			ID:       keys[i].Name,
			Name:     e.Name,
			Email:    e.Email,
			Phone:    e.Phone,
			JoinedAt: e.JoinedAt,
		}
	}
	return result, nil
}

// GetSalesBetween returns sales with from <= SoldAt <= to.
func (dc *DatastoreClient) GetSalesBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	if err := dc.ready(); err != nil {
		return nil, err
	}

	q := datastore.NewQuery(KindSale).
		FilterField("SoldAt", ">=", from).
		FilterField("SoldAt", "<=", to).
		Order("SoldAt")

	var entities []saleEntity
	keys, err := dc.client.GetAll(ctx, q, &entities)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Sale, 0, len(entities))
	for i, e := range entities {
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("sale %q amount %q: %w", keys[i].Name, e.Amount, err)
		}
		result = append(result, domain.Sale{
			ID:            keys[i].Name,
			SalespersonID: e.SalespersonID,
			Amount:        amount,
			Date:          e.SoldAt,
			Client:        e.Client,
			Product:       e.Product,
		})
	}
	return result, nil
}

// GetRules returns every commission rule in storage order.
func (dc *DatastoreClient) GetRules(ctx context.Context) ([]domain.RateRule, error) {
	if err := dc.ready(); err != nil {
		return nil, err
	}

	var entities []ruleEntity
	keys, err := dc.client.GetAll(ctx, datastore.NewQuery(KindRule), &entities)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RateRule, 0, len(entities))
	for i, e := range entities {
		rule, err := e.toDomain(keys[i].Name)
		if err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, nil
}

func (e ruleEntity) toDomain(id string) (domain.RateRule, error) {
	parse := func(field, v string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("rule %q %s %q: %w", id, field, v, err)
		}
		return d, nil
	}

	minimum, err := parse("minimum", e.Minimum)
	if err != nil {
		return domain.RateRule{}, err
	}
	maximum, err := parse("maximum", e.Maximum)
	if err != nil {
		return domain.RateRule{}, err
	}
	pct, err := parse("percentage", e.Percentage)
	if err != nil {
		return domain.RateRule{}, err
	}
	return domain.RateRule{ID: id, Minimum: minimum, Maximum: maximum, Percentage: pct, Description: e.Description}, nil
}

// DeleteKind removes every entity of kind.
func (dc *DatastoreClient) DeleteKind(ctx context.Context, kind string) error {
	if err := dc.ready(); err != nil {
		return err
	}

	keys, err := dc.client.GetAll(ctx, datastore.NewQuery(kind).KeysOnly(), nil)
	if err != nil {
		return err
	}
	for start := 0; start < len(keys); start += datastoreBatchSize {
		end := min(start+datastoreBatchSize, len(keys))
		if err := dc.client.DeleteMulti(ctx, keys[start:end]); err != nil {
			return fmt.Errorf("delete %s: %w", kind, err)
		}
	}
	return nil
}
