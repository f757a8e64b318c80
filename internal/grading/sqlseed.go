package grading

// Practice schema, recreated in every sandbox.
var seedStatements = []string{
	`CREATE TABLE employees (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT,
		salary REAL,
		hire_date TEXT,
		manager_id INTEGER
	)`,
	`CREATE TABLE departments (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		budget REAL,
		location TEXT
	)`,
	`CREATE TABLE projects (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		department_id INTEGER,
		start_date TEXT,
		end_date TEXT,
		status TEXT DEFAULT 'active'
	)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY,
		customer_name TEXT,
		product TEXT,
		quantity INTEGER,
		price REAL,
		order_date TEXT
	)`,
	`INSERT INTO employees VALUES
		(1, 'Alice Johnson', 'Engineering', 95000, '2020-01-15', NULL),
		(2, 'Bob Smith', 'Engineering', 85000, '2021-03-20', 1),
		(3, 'Carol Williams', 'Marketing', 75000, '2019-06-10', NULL),
		(4, 'David Brown', 'Engineering', 92000, '2020-08-05', 1),
		(5, 'Eve Davis', 'Marketing', 70000, '2022-01-08', 3),
		(6, 'Frank Miller', 'HR', 80000, '2021-09-15', NULL),
		(7, 'Grace Wilson', 'Engineering', 98000, '2018-03-22', 1),
		(8, 'Henry Taylor', 'Marketing', 72000, '2023-02-14', 3),
		(9, 'Ivy Anderson', 'HR', 68000, '2022-07-01', 6),
		(10, 'Jack Thomas', 'Engineering', 88000, '2021-11-30', 1)`,
	`INSERT INTO departments VALUES
		(1, 'Engineering', 500000, 'Building A'),
		(2, 'Marketing', 200000, 'Building B'),
		(3, 'HR', 150000, 'Building C'),
		(4, 'Sales', 300000, 'Building B')`,
	`INSERT INTO projects VALUES
		(1, 'Project Alpha', 1, '2023-01-01', '2023-12-31', 'active'),
		(2, 'Project Beta', 1, '2023-06-01', '2024-06-01', 'active'),
		(3, 'Campaign X', 2, '2023-03-01', '2023-09-30', 'completed'),
		(4, 'HR Portal', 3, '2023-04-01', NULL, 'active')`,
	`INSERT INTO orders VALUES
		(1, 'John Doe', 'Laptop', 2, 999.99, '2023-01-15'),
		(2, 'Jane Roe', 'Mouse', 5, 29.99, '2023-02-20'),
		(3, 'John Doe', 'Keyboard', 1, 79.99, '2023-03-10'),
		(4, 'Alice Cooper', 'Monitor', 3, 349.99, '2023-03-15'),
		(5, 'Jane Roe', 'Laptop', 1, 999.99, '2023-04-01'),
		(6, 'Bob Builder', 'Mouse', 10, 29.99, '2023-04-10'),
		(7, 'Alice Cooper', 'Keyboard', 2, 79.99, '2023-05-20')`,
}
