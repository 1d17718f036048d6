package plant_test

import "errors"

type Gauge struct {
	Small uint8
	Whole int
	Pos   uint
	Ratio float32
}

type House struct {
	Color      string
	SquareFoot int
	Summary    string
	Tags       []string
	Persons    []*Person
}

func NewHouse(color string, squareFoot int) *House {
	return &House{Color: color, SquareFoot: squareFoot}
}

type Person struct {
	FirstName       string
	MiddleName      string
	LastName        string
	FullName        string
	HouseWhereILive *House
}

type Book struct {
	Author    string
	Publisher string
	Pages     int
}

func NewBook(author, publisher string) Book {
	return Book{Author: author, Publisher: publisher}
}

type Car struct {
	Make string
}

var errMakeRequired = errors.New("make is required")

func NewCar(mk string) (*Car, error) {
	if mk == "" {
		return nil, errMakeRequired
	}
	return &Car{Make: mk}, nil
}

// Node and Peer reference each other.
type Node struct {
	Name string
	Peer *Peer
}

type Peer struct {
	Name string
	Node *Node
}
