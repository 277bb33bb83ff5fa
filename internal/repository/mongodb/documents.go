package mongodb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errMalformed = errors.New("malformed document")

type menuItemDocument struct {
	Name        string        `bson:"name"`
	Description string        `bson:"description"`
	Price       bson.RawValue `bson:"price"`
	Image       string        `bson:"image,omitempty"`
}

type categoryDocument struct {
	Name  string             `bson:"name"`
	Items []menuItemDocument `bson:"items"`
}

type menuDocument struct {
	ID             interface{}        `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	RestaurantName string             `bson:"restaurantName,omitempty"`
	Description    string             `bson:"description"`
	Categories     []categoryDocument `bson:"categories"`
	RestaurantID   string             `bson:"restaurantId"`
	WhatsappNumber string             `bson:"whatsappNumber,omitempty"`
	ViewCount      int64              `bson:"viewCount"`
}

type lineItemDocument struct {
	Name     string        `bson:"name"`
	Quantity int           `bson:"quantity"`
	Price    bson.RawValue `bson:"price"`
}

type orderDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	RestaurantID    string             `bson:"restaurantId"`
	MenuID          string             `bson:"menuId"`
	CustomerName    string             `bson:"customerName"`
	CustomerMobile  string             `bson:"customerMobile"`
	RoomTableNumber string             `bson:"roomTableNumber"`
	Items           []lineItemDocument `bson:"items"`
	Total           bson.RawValue      `bson:"total"`
	Timestamp       time.Time          `bson:"timestamp"`
	Status          string             `bson:"status"`
}

type ratingDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	RestaurantID   string             `bson:"restaurantId"`
	CustomerName   string             `bson:"customerName"`
	CustomerMobile string             `bson:"customerMobile"`
	Rating         int                `bson:"rating"`
	Timestamp      time.Time          `bson:"timestamp"`
}

type viewDocument struct {
	ID           string    `bson:"_id"`
	MenuID       string    `bson:"menuId"`
	RestaurantID string    `bson:"restaurantId"`
	UserAgent    string    `bson:"userAgent"`
	DeviceType   string    `bson:"deviceType"`
	DeviceVendor string    `bson:"deviceVendor"`
	BrowserName  string    `bson:"browserName"`
	Referrer     string    `bson:"referrer"`
	ScreenSize   string    `bson:"screenSize"`
	Language     string    `bson:"language"`
	TimeOfDay    int       `bson:"timeOfDay"`
	DayOfWeek    int       `bson:"dayOfWeek"`
	Timestamp    time.Time `bson:"timestamp"`
}

// idString renders an _id of any supported type as a string
func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// idFilter matches an _id stored either as an ObjectID or as a plain string
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// decimalFromRaw accepts prices stored as decimal128, double, int or string
func decimalFromRaw(rv bson.RawValue) (decimal.Decimal, error) {
	switch rv.Type {
	case bson.TypeDecimal128:
		return decimal.NewFromString(rv.Decimal128().String())
	case bson.TypeDouble:
		return decimal.NewFromFloat(rv.Double()), nil
	case bson.TypeInt32:
		return decimal.NewFromInt(int64(rv.Int32())), nil
	case bson.TypeInt64:
		return decimal.NewFromInt(rv.Int64()), nil
	case bson.TypeString:
		return decimal.NewFromString(strings.TrimSpace(rv.StringValue()))
	case 0:
		return decimal.Zero, fmt.Errorf("%w: missing amount", errMalformed)
	}
	return decimal.Zero, fmt.Errorf("%w: unsupported amount type %s", errMalformed, rv.Type)
}

// rawDecimal encodes an amount as a BSON decimal128 value
func rawDecimal(d decimal.Decimal) (bson.RawValue, error) {
	dec, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return bson.RawValue{}, fmt.Errorf("failed to encode amount %s: %w", d, err)
	}
	t, data, err := bson.MarshalValue(dec)
	if err != nil {
		return bson.RawValue{}, fmt.Errorf("failed to encode amount %s: %w", d, err)
	}
	return bson.RawValue{Type: t, Value: data}, nil
}

func (d *menuDocument) toModel() (models.Menu, error) {
	id := idString(d.ID)
	if id == "" {
		return models.Menu{}, fmt.Errorf("%w: menu without _id", errMalformed)
	}
	if strings.TrimSpace(d.Name) == "" {
		return models.Menu{}, fmt.Errorf("%w: menu %s has no name", errMalformed, id)
	}

	categories := make([]models.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		items := make([]models.MenuItem, 0, len(c.Items))
		for _, it := range c.Items {
			if strings.TrimSpace(it.Name) == "" {
				return models.Menu{}, fmt.Errorf("%w: menu %s has an unnamed item in %q", errMalformed, id, c.Name)
			}
			price, err := decimalFromRaw(it.Price)
			if err != nil {
				return models.Menu{}, fmt.Errorf("menu %s item %q: %w", id, it.Name, err)
			}
			if price.IsNegative() {
				return models.Menu{}, fmt.Errorf("%w: menu %s item %q has negative price", errMalformed, id, it.Name)
			}
			items = append(items, models.MenuItem{
				Name:        it.Name,
				Description: it.Description,
				Price:       price,
				Image:       it.Image,
			})
		}
		categories = append(categories, models.Category{Name: c.Name, Items: items})
	}

	return models.Menu{
		ID:             id,
		Name:           d.Name,
		RestaurantName: d.RestaurantName,
		Description:    d.Description,
		Categories:     categories,
		RestaurantID:   d.RestaurantID,
		WhatsappNumber: d.WhatsappNumber,
		ViewCount:      d.ViewCount,
	}, nil
}

func newOrderDocument(o *models.Order) (*orderDocument, error) {
	items := make([]lineItemDocument, 0, len(o.Items))
	for _, li := range o.Items {
		price, err := rawDecimal(li.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, lineItemDocument{Name: li.Name, Quantity: li.Quantity, Price: price})
	}
	total, err := rawDecimal(o.Total)
	if err != nil {
		return nil, err
	}

	return &orderDocument{
		RestaurantID:    o.RestaurantID,
		MenuID:          o.MenuID,
		CustomerName:    o.CustomerName,
		CustomerMobile:  o.CustomerMobile,
		RoomTableNumber: o.RoomTableNumber,
		Items:           items,
		Total:           total,
		Timestamp:       o.CreatedAt,
		Status:          string(o.Status),
	}, nil
}

func (d *orderDocument) toModel() (models.Order, error) {
	items := make([]models.LineItem, 0, len(d.Items))
	for _, li := range d.Items {
		price, err := decimalFromRaw(li.Price)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s item %q: %w", d.ID.Hex(), li.Name, err)
		}
		items = append(items, models.LineItem{Name: li.Name, Quantity: li.Quantity, Price: price})
	}
	total, err := decimalFromRaw(d.Total)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s total: %w", d.ID.Hex(), err)
	}

	status := models.OrderStatus(d.Status)
	if status == "" {
		status = models.OrderStatusPending
	}
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("%w: order %s has status %q", errMalformed, d.ID.Hex(), d.Status)
	}

	return models.Order{
		ID:              d.ID.Hex(),
		RestaurantID:    d.RestaurantID,
		MenuID:          d.MenuID,
		CustomerName:    d.CustomerName,
		CustomerMobile:  d.CustomerMobile,
		RoomTableNumber: d.RoomTableNumber,
		Items:           items,
		Total:           total,
		CreatedAt:       d.Timestamp,
		Status:          status,
	}, nil
}

func (d *ratingDocument) toModel() (models.Rating, error) {
	if d.Rating < models.MinRating || d.Rating > models.MaxRating {
		return models.Rating{}, fmt.Errorf("%w: rating %s has value %d", errMalformed, d.ID.Hex(), d.Rating)
	}
	return models.Rating{
		ID:             d.ID.Hex(),
		RestaurantID:   d.RestaurantID,
		CustomerName:   d.CustomerName,
		CustomerMobile: d.CustomerMobile,
		Value:          d.Rating,
		CreatedAt:      d.Timestamp,
	}, nil
}

func newViewDocument(v models.MenuView) viewDocument {
	return viewDocument{
		ID:           v.ID,
		MenuID:       v.MenuID,
		RestaurantID: v.RestaurantID,
		UserAgent:    v.UserAgent,
		DeviceType:   v.DeviceType,
		DeviceVendor: v.DeviceVendor,
		BrowserName:  v.BrowserName,
		Referrer:     v.Referrer,
		ScreenSize:   v.ScreenSize,
		Language:     v.Language,
		TimeOfDay:    v.TimeOfDay,
		DayOfWeek:    v.DayOfWeek,
		Timestamp:    v.Timestamp,
	}
}
