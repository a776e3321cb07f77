package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Documents keep the field names of the original collections. Ids may be
// ObjectIDs or strings and money may be stored as any BSON number.
type salespersonDoc struct {
	ID       bson.RawValue `bson:"_id"`
	Name     string        `bson:"nombre"`
	Email    string        `bson:"email"`
	Phone    string        `bson:"telefono"`
	JoinedAt time.Time     `bson:"fechaIngreso"`
}

type saleDoc struct {
	ID            bson.RawValue `bson:"_id"`
	SalespersonID bson.RawValue `bson:"vendedorId"`
	Amount        bson.RawValue `bson:"monto"`
	Date          time.Time     `bson:"fecha"`
	Client        string        `bson:"cliente"`
	Product       string        `bson:"producto"`
}

type ruleDoc struct {
	ID          bson.RawValue `bson:"_id"`
	Minimum     bson.RawValue `bson:"rangoMinimo"`
	Maximum     bson.RawValue `bson:"rangoMaximo"`
	Percentage  bson.RawValue `bson:"porcentajeComision"`
	Description string        `bson:"descripcion"`
}

// MongoProvider reads and writes the commission inputs in MongoDB.
type MongoProvider struct {
	db *mongo.Database
}

func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{db: db}
}

func (p *MongoProvider) Name() string { return "mongo" }

func (p *MongoProvider) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}})
	cursor, err := p.db.Collection(database.CollectionSalespeople).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list salespeople: %w", err)
	}

	var docs []salespersonDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode salespeople: %w", err)
	}

	result := make([]domain.Salesperson, 0, len(docs))
	for _, d := range docs {
		result = append(result, domain.Salesperson{
			ID:       rawID(d.ID),
			Name:     d.Name,
			Email:    d.Email,
			Phone:    d.Phone,
			JoinedAt: d.JoinedAt,
		})
	}
	if err := domain.ValidateSalespeople(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *MongoProvider) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	filter := bson.M{"fecha": bson.M{"$gte": period.Start, "$lte": period.EndOfDay()}}
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: 1}})

	cursor, err := p.db.Collection(database.CollectionSales).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list sales: %w", err)
	}

	var docs []saleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode sales: %w", err)
	}

	result := make([]domain.Sale, 0, len(docs))
	for _, d := range docs {
		id := rawID(d.ID)
		amount, err := rawDecimal(d.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: sale %q monto: %v", domain.ErrInvalidRecord, id, err)
		}
		result = append(result, domain.Sale{
			ID:            id,
			SalespersonID: rawID(d.SalespersonID),
			Amount:        amount,
			Date:          d.Date,
			Client:        d.Client,
			Product:       d.Product,
		})
	}
	if err := domain.ValidateSales(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *MongoProvider) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	cursor, err := p.db.Collection(database.CollectionRules).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongo: list rules: %w", err)
	}

	var docs []ruleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode rules: %w", err)
	}

	result := make([]domain.RateRule, 0, len(docs))
	for _, d := range docs {
		r := domain.RateRule{ID: rawID(d.ID), Description: d.Description}
		for _, f := range []struct {
			name string
			raw  bson.RawValue
			dst  *decimal.Decimal
		}{
			{"rangoMinimo", d.Minimum, &r.Minimum},
			{"rangoMaximo", d.Maximum, &r.Maximum},
			{"porcentajeComision", d.Percentage, &r.Percentage},
		} {
			v, err := rawDecimal(f.raw)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q %s: %v", domain.ErrInvalidRecord, r.ID, f.name, err)
			}
			*f.dst = v
		}
		result = append(result, r)
	}
	if err := domain.ValidateRules(result); err != nil {
		return nil, err
	}
	// mixed numeric BSON types do not sort reliably server side
	return commission.SortRules(result), nil
}

func (p *MongoProvider) CreateSalesperson(ctx context.Context, s *domain.Salesperson) error {
	if err := domain.ValidateSalesperson(*s); err != nil {
		return err
	}
	doc := bson.D{
		{Key: "_id", Value: s.ID},
		{Key: "nombre", Value: s.Name},
		{Key: "email", Value: s.Email},
		{Key: "telefono", Value: s.Phone},
		{Key: "fechaIngreso", Value: s.JoinedAt},
	}
	if _, err := p.db.Collection(database.CollectionSalespeople).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: create salesperson: %w", err)
	}
	return nil
}

func (p *MongoProvider) CreateSale(ctx context.Context, s *domain.Sale) error {
	if err := domain.ValidateSale(*s); err != nil {
		return err
	}
	doc, err := saleToBSON(s)
	if err != nil {
		return err
	}
	if _, err := p.db.Collection(database.CollectionSales).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: create sale: %w", err)
	}
	return nil
}

// CreateSales inserts all sales with a single unordered InsertMany.
func (p *MongoProvider) CreateSales(ctx context.Context, sales []domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	if err := domain.ValidateSales(sales); err != nil {
		return err
	}

	docs := make([]interface{}, 0, len(sales))
	for i := range sales {
		doc, err := saleToBSON(&sales[i])
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	opts := options.InsertMany().SetOrdered(false)
	if _, err := p.db.Collection(database.CollectionSales).InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("mongo: create sales: %w", err)
	}
	return nil
}

func saleToBSON(s *domain.Sale) (bson.D, error) {
	amount, err := primitive.ParseDecimal128(s.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("%w: sale %q amount: %v", domain.ErrInvalidRecord, s.ID, err)
	}
	return bson.D{
		{Key: "_id", Value: s.ID},
		{Key: "vendedorId", Value: s.SalespersonID},
		{Key: "monto", Value: amount},
		{Key: "fecha", Value: s.Date},
		{Key: "cliente", Value: s.Client},
		{Key: "producto", Value: s.Product},
	}, nil
}

func (p *MongoProvider) CreateRule(ctx context.Context, r *domain.RateRule) error {
	if err := domain.ValidateRule(*r); err != nil {
		return err
	}

	values := make([]primitive.Decimal128, 3)
	for i, d := range []decimal.Decimal{r.Minimum, r.Maximum, r.Percentage} {
		v, err := primitive.ParseDecimal128(d.String())
		if err != nil {
			return fmt.Errorf("%w: rule %q: %v", domain.ErrInvalidRecord, r.ID, err)
		}
		values[i] = v
	}

	doc := bson.D{
		{Key: "_id", Value: r.ID},
		{Key: "rangoMinimo", Value: values[0]},
		{Key: "rangoMaximo", Value: values[1]},
		{Key: "porcentajeComision", Value: values[2]},
		{Key: "descripcion", Value: r.Description},
	}
	if _, err := p.db.Collection(database.CollectionRules).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: create rule: %w", err)
	}
	return nil
}

func (p *MongoProvider) Clear(ctx context.Context) error {
	for _, coll := range []string{database.CollectionSales, database.CollectionRules, database.CollectionSalespeople} {
		if _, err := p.db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("mongo: clear %s: %w", coll, err)
		}
	}
	return nil
}

// rawID renders an ObjectID as hex and anything else as its string form.
func rawID(v bson.RawValue) string {
	switch v.Type {
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.String:
		return v.StringValue()
	case bsontype.Int32:
		return fmt.Sprint(v.Int32())
	case bsontype.Int64:
		return fmt.Sprint(v.Int64())
	default:
		return ""
	}
}

func rawDecimal(v bson.RawValue) (decimal.Decimal, error) {
	switch v.Type {
	case bsontype.Double:
		return decimal.NewFromFloat(v.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(v.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(v.Int64()), nil
	case bsontype.Decimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bsontype.String:
		return decimal.NewFromString(v.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %s", v.Type)
	}
}
